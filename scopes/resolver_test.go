// scopes/resolver_test.go
package scopes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ascending-llc/mcp-gateway-registry-sub004/model"
)

func testRuleSet() *model.RuleSet {
	rs := model.NewRuleSet()
	rs.Scopes["mcp-registry-admin"] = []model.ServerRule{
		{Server: "github", Tools: []string{"search_pr"}},
	}
	rs.GroupMappings["registry-admins"] = []string{"mcp-registry-admin"}
	return rs
}

func TestCheckToolAccess_FailClosed(t *testing.T) {
	rs := testRuleSet()

	t.Run("nil rule set", func(t *testing.T) {
		assert.False(t, CheckToolAccess("github", "search_pr", []string{"mcp-registry-admin"}, nil))
	})

	t.Run("empty rule set", func(t *testing.T) {
		assert.False(t, CheckToolAccess("github", "search_pr", []string{"mcp-registry-admin"}, model.NewRuleSet()))
	})

	t.Run("empty identity scopes", func(t *testing.T) {
		assert.False(t, CheckToolAccess("github", "search_pr", nil, rs))
		assert.False(t, CheckToolAccess("github", "search_pr", []string{}, rs))
	})
}

func TestCheckToolAccess_TrailingSlashNormalization(t *testing.T) {
	rs := model.NewRuleSet()
	rs.Scopes["dev"] = []model.ServerRule{
		{Server: "github/", Tools: []string{"search_pr"}},
	}
	identity := []string{"dev"}

	assert.True(t, CheckToolAccess("github", "search_pr", identity, rs))
	assert.True(t, CheckToolAccess("github/", "search_pr", identity, rs))

	// Exactly one slash is stripped, not a suffix run.
	assert.False(t, CheckToolAccess("github//", "search_pr", identity, rs))
}

func TestCheckToolAccess_LaterScopeStillMatches(t *testing.T) {
	rs := model.NewRuleSet()
	rs.Scopes["b"] = []model.ServerRule{
		{Server: "github", Tools: []string{"search_pr"}},
	}

	// "a" grants nothing; the scan must reach "b".
	assert.True(t, CheckToolAccess("github", "search_pr", []string{"a", "b"}, rs))
}

func TestCheckToolAccess_GroupIndirection(t *testing.T) {
	rs := testRuleSet()

	t.Run("group resolves to scope", func(t *testing.T) {
		identity := []string{"registry-admins"}
		assert.True(t, CheckToolAccess("github", "search_pr", identity, rs))
		assert.False(t, CheckToolAccess("github", "other_tool", identity, rs))
		assert.False(t, CheckToolAccess("gitlab", "search_pr", identity, rs))
	})

	t.Run("one level only, no transitive resolution", func(t *testing.T) {
		nested := model.NewRuleSet()
		nested.Scopes["real-scope"] = []model.ServerRule{
			{Server: "github", Tools: []string{"search_pr"}},
		}
		// outer-group points at inner-group, which is itself only a group.
		nested.GroupMappings["inner-group"] = []string{"real-scope"}
		nested.GroupMappings["outer-group"] = []string{"inner-group"}

		assert.False(t, CheckToolAccess("github", "search_pr", []string{"outer-group"}, nested))
		assert.True(t, CheckToolAccess("github", "search_pr", []string{"inner-group"}, nested))
	})

	t.Run("mapping to nonexistent scope is ignored", func(t *testing.T) {
		rs := model.NewRuleSet()
		rs.Scopes["real"] = []model.ServerRule{
			{Server: "github", Tools: []string{"search_pr"}},
		}
		rs.GroupMappings["team"] = []string{"ghost-scope", "real"}

		assert.True(t, CheckToolAccess("github", "search_pr", []string{"team"}, rs))
	})

	t.Run("cyclic mappings terminate", func(t *testing.T) {
		rs := model.NewRuleSet()
		rs.GroupMappings["a"] = []string{"b"}
		rs.GroupMappings["b"] = []string{"a"}

		assert.False(t, CheckToolAccess("github", "search_pr", []string{"a"}, rs))
	})
}

func TestCheckToolAccess_NameIsBothScopeAndGroup(t *testing.T) {
	rs := model.NewRuleSet()
	rs.Scopes["ops"] = []model.ServerRule{
		{Server: "github", Tools: []string{"search_pr"}},
	}
	rs.Scopes["ops-extra"] = []model.ServerRule{
		{Server: "gitlab", Tools: []string{"list_mrs"}},
	}
	// "ops" is a scope name and a group key at once.
	rs.GroupMappings["ops"] = []string{"ops-extra"}

	identity := []string{"ops"}
	assert.True(t, CheckToolAccess("github", "search_pr", identity, rs), "direct interpretation")
	assert.True(t, CheckToolAccess("gitlab", "list_mrs", identity, rs), "group interpretation")
}

func TestCheckToolAccess_MalformedRules(t *testing.T) {
	rs := model.NewRuleSet()
	rs.Scopes["dev"] = []model.ServerRule{
		{Server: "github"}, // no tools: never matches, never errors
		{Server: "", Tools: []string{"search_pr"}},
	}

	assert.False(t, CheckToolAccess("github", "search_pr", []string{"dev"}, rs))
}

func TestCheckToolAccess_EndToEndExample(t *testing.T) {
	rs := testRuleSet()
	identity := []string{"registry-admins"}

	assert.True(t, CheckToolAccess("github", "search_pr", identity, rs))
	assert.False(t, CheckToolAccess("github", "other_tool", identity, rs))
	assert.False(t, CheckToolAccess("gitlab", "search_pr", identity, rs))
}

func TestCheckToolAccess_Deterministic(t *testing.T) {
	rs := testRuleSet()
	identity := []string{"registry-admins", "mcp-registry-admin"}

	first := CheckToolAccess("github", "search_pr", identity, rs)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, CheckToolAccess("github", "search_pr", identity, rs))
	}
}

// scopes/loader_test.go
package scopes

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScopesYAML = `
mcp-registry-admin:
  - server: github
    tools:
      - search_pr
      - create_issue
  - server: gitlab/
    tools:
      - list_mrs

mcp-registry-read:
  - server: github
    tools:
      - search_pr

group_mappings:
  registry-admins:
    - mcp-registry-admin
  registry-users:
    - mcp-registry-read
`

func TestParseRuleSet(t *testing.T) {
	rs := ParseRuleSet([]byte(sampleScopesYAML))

	require.Len(t, rs.Scopes, 2)
	require.Len(t, rs.GroupMappings, 2)

	admin := rs.Scopes["mcp-registry-admin"]
	require.Len(t, admin, 2)
	assert.Equal(t, "github", admin[0].Server)
	assert.Equal(t, []string{"search_pr", "create_issue"}, admin[0].Tools)
	assert.Equal(t, "gitlab/", admin[1].Server)

	assert.Equal(t, []string{"mcp-registry-admin"}, rs.GroupMappings["registry-admins"])
}

func TestParseRuleSet_EmptyAndUnrecognized(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		rs := ParseRuleSet(nil)
		require.NotNil(t, rs)
		assert.True(t, rs.Empty())
	})

	t.Run("garbage document", func(t *testing.T) {
		rs := ParseRuleSet([]byte("::: not yaml {{{"))
		require.NotNil(t, rs)
		assert.True(t, rs.Empty())
	})

	t.Run("non-mapping document", func(t *testing.T) {
		rs := ParseRuleSet([]byte("- a\n- b\n"))
		require.NotNil(t, rs)
		assert.True(t, rs.Empty())
	})

	t.Run("malformed entries skipped, good ones kept", func(t *testing.T) {
		doc := `
bad-scope: "just a string"
good-scope:
  - server: github
    tools: [search_pr]
group_mappings: [not, a, mapping]
`
		rs := ParseRuleSet([]byte(doc))
		assert.NotContains(t, rs.Scopes, "bad-scope")
		assert.Contains(t, rs.Scopes, "good-scope")
		assert.Empty(t, rs.GroupMappings)
	})
}

func TestFileLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("reads and parses the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scopes.yml")
		require.NoError(t, os.WriteFile(path, []byte(sampleScopesYAML), 0o600))

		rs, err := FileLoader(path)(ctx)
		require.NoError(t, err)
		assert.Contains(t, rs.Scopes, "mcp-registry-admin")
	})

	t.Run("missing file yields empty rule set, not an error", func(t *testing.T) {
		rs, err := FileLoader(filepath.Join(t.TempDir(), "nope.yml"))(ctx)
		require.NoError(t, err)
		require.NotNil(t, rs)
		assert.True(t, rs.Empty())
	})
}

// scopes/loader.go
package scopes

import (
	"context"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	logger "github.com/ascending-llc/mcp-gateway-registry-sub004/logging"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/model"
)

// groupMappingsKey is the one reserved top-level key in the scopes file;
// every other key is a scope name.
const groupMappingsKey = "group_mappings"

// Loader produces the current RuleSet from the external config source.
// The cache invokes it on a full miss and trusts it to either return a
// well-formed rule set or fail.
type Loader func(ctx context.Context) (*model.RuleSet, error)

// FileLoader returns a Loader reading the scopes file at path. Access
// checks must never crash on config problems, so an unreadable or
// unparseable file yields the empty rule set (deny everything) rather
// than an error.
func FileLoader(path string) Loader {
	return func(ctx context.Context) (*model.RuleSet, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Scopes file unreadable, serving empty rule set",
				zap.String("path", path),
				zap.Error(err))
			return model.NewRuleSet(), nil
		}
		return ParseRuleSet(data), nil
	}
}

// ParseRuleSet interprets the scopes document: group_mappings holds the
// group indirection table, every other top-level key is a scope name
// mapped to its server rules. Entries of the wrong shape are skipped,
// never fatal; a document with no recognized keys is the empty rule set.
func ParseRuleSet(data []byte) *model.RuleSet {
	rs := model.NewRuleSet()

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		logger.Warn("Scopes file unparseable, serving empty rule set", zap.Error(err))
		return rs
	}

	for key, node := range raw {
		if key == groupMappingsKey {
			var mappings map[string][]string
			if err := node.Decode(&mappings); err != nil {
				logger.Warn("Skipping malformed group_mappings", zap.Error(err))
				continue
			}
			for group, mapped := range mappings {
				rs.GroupMappings[group] = mapped
			}
			continue
		}

		var rules []model.ServerRule
		if err := node.Decode(&rules); err != nil {
			logger.Warn("Skipping malformed scope entry",
				zap.String("scope", key),
				zap.Error(err))
			continue
		}
		rs.Scopes[key] = rules
	}

	return rs
}

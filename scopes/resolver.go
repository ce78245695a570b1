// scopes/resolver.go
package scopes

import (
	"strings"

	"go.uber.org/zap"

	logger "github.com/ascending-llc/mcp-gateway-registry-sub004/logging"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/model"
)

// CheckToolAccess decides whether an identity holding identityScopes may
// invoke tool on server under the given rule set. Fail closed: an empty
// rule set or an empty scope list denies. The function is deterministic
// and side-effect free apart from diagnostic logging.
//
// Identity scopes are tried in order as direct scope names first; only if
// no direct rule matches are group mappings consulted, and group
// indirection is a single level — a group mapping that names another
// group (rather than a scope) contributes nothing.
func CheckToolAccess(server, tool string, identityScopes []string, rs *model.RuleSet) bool {
	if rs.Empty() || len(identityScopes) == 0 {
		return false
	}

	target := normalizeServer(server)

	// Direct pass: first matching scope wins.
	for _, scope := range identityScopes {
		if scopePermits(rs.Scopes[scope], target, tool) {
			logger.Debug("Tool access granted by scope",
				zap.String("scope", scope),
				zap.String("server", target),
				zap.String("tool", tool))
			return true
		}
	}

	// Group indirection pass. A name that is both a scope and a group key
	// gets both interpretations: it was already tried above as a scope.
	for group, mappedScopes := range rs.GroupMappings {
		if !containsString(identityScopes, group) {
			continue
		}
		for _, scope := range mappedScopes {
			// Mappings to nonexistent scopes fall through silently.
			if scopePermits(rs.Scopes[scope], target, tool) {
				logger.Debug("Tool access granted by group mapping",
					zap.String("group", group),
					zap.String("scope", scope),
					zap.String("server", target),
					zap.String("tool", tool))
				return true
			}
		}
	}

	logger.Debug("Tool access denied",
		zap.String("server", target),
		zap.String("tool", tool),
		zap.Strings("scopes", identityScopes))
	return false
}

// scopePermits reports whether any rule in the list covers (target, tool).
// Rules with a missing or empty tool list simply never match.
func scopePermits(rules []model.ServerRule, target, tool string) bool {
	for _, rule := range rules {
		if normalizeServer(rule.Server) != target {
			continue
		}
		for _, t := range rule.Tools {
			if t == tool {
				return true
			}
		}
	}
	return false
}

// normalizeServer strips exactly one trailing slash, so "github/" and
// "github" compare equal. This is plain normalization, not pattern
// matching.
func normalizeServer(s string) string {
	return strings.TrimSuffix(s, "/")
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

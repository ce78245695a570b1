// model/scope.go
package model

// ServerRule grants access to a set of tools on a single MCP server under
// one scope. Tool order is preserved for display; permission checks treat
// Tools as a set.
type ServerRule struct {
	Server string   `json:"server" yaml:"server"`
	Tools  []string `json:"tools" yaml:"tools"`
}

// RuleSet is the parsed scopes configuration: scope name -> server rules,
// plus the group indirection table (group name -> scope names). Scope and
// group names are case-sensitive.
type RuleSet struct {
	Scopes        map[string][]ServerRule `json:"scopes"`
	GroupMappings map[string][]string     `json:"group_mappings"`
}

// NewRuleSet returns an empty, non-nil RuleSet.
func NewRuleSet() *RuleSet {
	return &RuleSet{
		Scopes:        make(map[string][]ServerRule),
		GroupMappings: make(map[string][]string),
	}
}

// Empty reports whether the rule set carries no scopes and no group
// mappings. A nil RuleSet is empty.
func (rs *RuleSet) Empty() bool {
	if rs == nil {
		return true
	}
	return len(rs.Scopes) == 0 && len(rs.GroupMappings) == 0
}

// ScopeNames returns the scope keys of the rule set. Diagnostic use only.
func (rs *RuleSet) ScopeNames() []string {
	if rs == nil {
		return nil
	}
	names := make([]string, 0, len(rs.Scopes))
	for name := range rs.Scopes {
		names = append(names, name)
	}
	return names
}

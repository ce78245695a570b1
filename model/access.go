// model/access.go
package model

// AccessQuery is one access check: may the identity holding Scopes invoke
// Tool on Server? Scopes is transient per-request input, already extracted
// from the caller's token by the auth middleware.
type AccessQuery struct {
	Server string   `json:"server"`
	Tool   string   `json:"tool"`
	Scopes []string `json:"scopes"`
}

// AccessDecision is the result of an access check.
type AccessDecision struct {
	Server  string `json:"server"`
	Tool    string `json:"tool"`
	Allowed bool   `json:"allowed"`
}

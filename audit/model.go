// audit/model.go
package audit

import "time"

// AccessLog is one recorded access-control decision.
type AccessLog struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Server    string    `json:"server"`
	Tool      string    `json:"tool"`
	Scopes    []string  `json:"scopes"`
	Allowed   bool      `json:"allowed"`
	Source    string    `json:"source,omitempty"`
}

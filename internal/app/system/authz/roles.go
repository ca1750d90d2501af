// internal/app/system/authz/roles.go
package authz

import (
	"fmt"
	"strings"
)

// Role is the closed set of garden roles. Gating privilege is a total
// order (admin covers editor covers viewer); the literal role value on a
// membership is otherwise plain metadata.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// privilege ranks roles for Satisfies. Higher covers lower.
var privilege = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
}

// ParseRole normalizes and validates a client-supplied role value.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := privilege[r]; !ok {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the three garden roles.
func (r Role) Valid() bool {
	_, ok := privilege[r]
	return ok
}

// Satisfies reports whether holding r grants actions gated on required.
func (r Role) Satisfies(required Role) bool {
	return privilege[r] >= privilege[required]
}

func (r Role) String() string { return string(r) }

package auth

import (
	"fmt"
	"strings"
)

// Role is the canonical role of an authenticated user. All parsing of
// externally supplied role strings happens in ParseRole; downstream code
// never re-derives roles from raw claims.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// ParseRole normalizes an externally supplied role string. It tolerates the
// legacy "ROLE_" prefix, surrounding whitespace, and any casing.
func ParseRole(s string) (Role, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.TrimPrefix(normalized, "role_")
	switch Role(normalized) {
	case RoleAdmin, RoleDoctor, RolePatient:
		return Role(normalized), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDoctor || r == RolePatient
}

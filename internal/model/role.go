package model

import (
	"fmt"
	"strings"
)

// Role is a user's role inside a tenant.
type Role string

const (
	RoleOwner  Role = "Owner"
	RoleMember Role = "Member"
)

// ParseRole accepts the role names case-insensitively.
func ParseRole(s string) (Role, error) {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), string(RoleOwner)):
		return RoleOwner, nil
	case strings.EqualFold(strings.TrimSpace(s), string(RoleMember)):
		return RoleMember, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// ParseRoleOrMember falls back to Member for anything unrecognised.
func ParseRoleOrMember(s string) Role {
	if r, err := ParseRole(s); err == nil {
		return r
	}
	return RoleMember
}

func (r Role) String() string {
	return string(r)
}

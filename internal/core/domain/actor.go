package domain

import "strings"

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleHR         Role = "HR"
	RoleManager    Role = "MANAGER"
	RoleEmployee   Role = "EMPLOYEE"
)

// ParseRole normalises a role claim; unknown values become RoleEmployee.
func ParseRole(raw string) Role {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleHR, RoleManager:
		return role
	}
	return RoleEmployee
}

// Privileged roles see every task and may edit arbitrary fields.
func (r Role) Privileged() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleHR, RoleManager:
		return true
	}
	return false
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
	// GroupIDs are the membership groups of the actor, resolved before
	// building visibility predicates.
	GroupIDs []string
}

type UserContact struct {
	ID    string
	Name  string
	Email *string
}

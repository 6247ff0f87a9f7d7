// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access, including blocking and deleting accounts.
	RoleAdmin UserRole = "admin"

	// Default role for standard registered users.
	RoleUser UserRole = "user"
)

// RoleOf maps the persisted admin flag onto a role claim.
func RoleOf(admin bool) UserRole {
	if admin {
		return RoleAdmin
	}
	return RoleUser
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// # Account State

// AccountState is the blocking status carried inside every token.
type AccountState string

const (
	StateBlocked   AccountState = "blocked"
	StateUnblocked AccountState = "unblocked"
)

// StateOf maps the persisted blocked flag onto a state claim.
func StateOf(blocked bool) AccountState {
	if blocked {
		return StateBlocked
	}
	return StateUnblocked
}

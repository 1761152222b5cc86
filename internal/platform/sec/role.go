// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package sec

// # Staff Roles

// UserRole represents the authorization level granted to a staff account.
type UserRole string

const (
	// Full access: can run reports, manage accounts, and export data
	RoleAdmin UserRole = "admin"

	// Default role: can run reports and look up patrons, but not manage accounts
	RoleLibrarian UserRole = "librarian"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-20) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 20
	case RoleLibrarian:
		return 10
	default:
		return 0
	}
}

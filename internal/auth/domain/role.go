package domain

// Role is a closed set of account roles.
type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleMentor   Role = "mentor"
	RoleEmployer Role = "employer"
)

// DefaultRole is assigned to every new account.
const DefaultRole = RoleUser

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleMentor, RoleEmployer:
		return true
	}
	return false
}

// RoleAllowed is the role gate: an operation with no declared roles is open to
// any caller, otherwise the claim must match one of them.
func RoleAllowed(declared []Role, claim Role) bool {
	if len(declared) == 0 {
		return true
	}
	for _, r := range declared {
		if r == claim {
			return true
		}
	}
	return false
}

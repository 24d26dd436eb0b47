package user

// Role is carried in the JWT and checked by the role middleware.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

// CanReview reports whether the role may review corrections and timesheets.
func CanReview(role Role) bool {
	return role == RoleOwner || role == RoleManager || role == RoleHR
}

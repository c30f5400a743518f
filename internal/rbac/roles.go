package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts and of
// the users.role column.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func IsAdmin(role string) bool { return role == RoleAdmin }

package rbac

// Supabase role claims. Keep these stable; they come from Supabase Auth.
const (
	RoleAuthenticated = "authenticated"
	RoleServiceRole   = "service_role"
	RoleAnon          = "anon"
)

// IsServiceRole reports whether the caller is a backend service key.
func IsServiceRole(role string) bool { return role == RoleServiceRole }

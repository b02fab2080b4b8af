package domain

// User is the slice of the identity record the middleware needs. Token
// issuance and account management live in a separate service.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

const RoleAdmin = "admin"

type userCtxKey struct{}

// UserContextKey keys the authenticated user in a request context.
var UserContextKey = userCtxKey{}

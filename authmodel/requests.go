package authmodel

// Endpoint paths on the lost-and-found API.
const (
	LoginPath    = "/auth/login"
	RegisterPath = "/auth/register"
	RefreshPath  = "/auth/refresh"
)

// LoginRequest is the body of POST /auth/login.
// Username accepts either the account email or the username.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// RefreshRequest is the (empty) body of POST /auth/refresh. The refresh
// token travels in the Authorization header.
type RefreshRequest struct{}

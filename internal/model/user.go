package model

// Roles carried in session tokens.  Requests without a token are anonymous
// and never reach role-gated handlers.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// User represents an application user record as stored in the `users`
// table.  This service only reads it.
//
// Fields:
//
//	ID       – users.userId, immutable.
//	Username – unique login name.
//	Password – bcrypt hash of the password.
//	Email    – contact address.
//	Role     – admin or student.
type User struct {
	ID       int64
	Username string
	Password string
	Email    string
	Role     string
}

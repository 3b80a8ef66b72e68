// Package users implements the user-management API: validation, persistence
// and the HTTP surface for user records.
package users

// User is a stored account row. PasswordHash never leaves the package.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}

// Profile is the projection of a user returned by read endpoints.
type Profile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

package models

// User represents a registered account.
// Password holds the scrypt hash string, never the plaintext; it is
// omitted from JSON responses.
type User struct {
	ID       int    `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
}

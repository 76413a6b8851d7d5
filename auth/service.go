// Package auth orchestrates registration and login on top of the data store
// and the password hasher.
package auth

import (
	"context"
	"errors"
	"fmt"

	"blog-service/database"
	"blog-service/models"
	"blog-service/security"
)

// ValidationError is the only renderable failure: a problem with the user's
// input (empty field, duplicate username, bad credentials). Handlers catch
// it and re-render the form with the message; it never becomes a 5xx.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Register validates the input, hashes the password and inserts the user.
// A duplicate username is reported as a ValidationError; the underlying
// uniqueness check is the store's constraint, so concurrent registrations
// of the same name cannot both succeed.
func Register(ctx context.Context, conn *database.Conn, username, password string) (*models.User, error) {
	if username == "" {
		return nil, &ValidationError{Message: "Username is required."}
	}
	if password == "" {
		return nil, &ValidationError{Message: "Password is required."}
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := conn.InsertUser(ctx, username, hash)
	if errors.Is(err, database.ErrDuplicateUsername) {
		return nil, &ValidationError{Message: fmt.Sprintf("User %s is already registered.", username)}
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login looks the user up and verifies the password against the stored hash.
// On success the caller establishes the session.
func Login(ctx context.Context, conn *database.Conn, username, password string) (*models.User, error) {
	user, err := conn.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &ValidationError{Message: "Incorrect username."}
	}
	if !security.CheckPassword(password, user.Password) {
		return nil, &ValidationError{Message: "Incorrect password."}
	}
	return user, nil
}

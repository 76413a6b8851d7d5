// Package database owns the relational store: connection lifecycle, schema
// initialization and user persistence.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blog-service/models"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// ErrDuplicateUsername is returned by InsertUser when the UNIQUE constraint
// on user.username rejects the write.
var ErrDuplicateUsername = errors.New("username already exists")

// Store is the shared database handle. It is safe for concurrent use; each
// request acquires its own Conn and releases it when done.
type Store struct {
	db *sqlx.DB
}

// InitSchema creates the declared tables from the embedded schema definition.
// It is intended for a fresh database: the schema drops and recreates the
// user table, so running it against a populated database wipes the data.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Acquire returns a dedicated connection for the current request. The caller
// must Close it on every exit path, normally via defer.
func (s *Store) Acquire(ctx context.Context) (*Conn, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &Conn{conn: conn}, nil
}

// Close releases the underlying pool. Called once at shutdown.
func (s *Store) Close() error {
	return s.db.Close()
}

// Conn is a single database connection scoped to one request unit-of-work.
type Conn struct {
	conn *sqlx.Conn
}

// Close returns the connection to the pool.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// FindUserByUsername looks up a user by exact username. It returns (nil, nil)
// when no such user exists.
func (c *Conn) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := c.conn.GetContext(ctx, &user,
		"SELECT id, username, password FROM user WHERE username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// FindUserByID looks up a user by id. It returns (nil, nil) when absent.
func (c *Conn) FindUserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := c.conn.GetContext(ctx, &user,
		"SELECT id, username, password FROM user WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// InsertUser creates a new user row and returns it with the assigned id.
// Uniqueness of the username is enforced by the storage layer, so two
// concurrent inserts of the same name yield exactly one success and one
// ErrDuplicateUsername.
func (c *Conn) InsertUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	result, err := c.conn.ExecContext(ctx,
		"INSERT INTO user (username, password) VALUES (?, ?)", username, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &models.User{
		ID:       int(id),
		Username: username,
		Password: passwordHash,
	}, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

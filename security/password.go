// Package security provides one-way password hashing and verification.
//
// Hashes are self-describing strings of the form
//
//	scrypt:N:r:p$salt$hexdigest
//
// so that stored hashes carry their own cost parameters and verification
// keeps working if the defaults change later.
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	scryptN = 32768
	scryptR = 8
	scryptP = 1
	keyLen  = 64
	saltLen = 16
)

const saltChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateSalt returns a random alphanumeric salt of saltLen characters.
func generateSalt() (string, error) {
	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	for i := range b {
		b[i] = saltChars[int(b[i])%len(saltChars)]
	}
	return string(b), nil
}

// HashPassword derives a storable hash from the plaintext password.
// A fresh salt is generated on every call, so hashing the same password
// twice yields different strings.
func HashPassword(plaintext string) (string, error) {
	salt, err := generateSalt()
	if err != nil {
		return "", err
	}
	key, err := scrypt.Key([]byte(plaintext), []byte(salt), scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", fmt.Errorf("scrypt: %w", err)
	}
	return fmt.Sprintf("scrypt:%d:%d:%d$%s$%s", scryptN, scryptR, scryptP, salt, hex.EncodeToString(key)), nil
}

// CheckPassword reports whether plaintext matches the stored hash. The cost
// parameters are taken from the stored string itself. Malformed input is
// treated as a mismatch, never an error.
func CheckPassword(plaintext, stored string) bool {
	method, rest, ok := strings.Cut(stored, "$")
	if !ok {
		return false
	}
	salt, digest, ok := strings.Cut(rest, "$")
	if !ok || salt == "" || digest == "" {
		return false
	}

	params := strings.Split(method, ":")
	if len(params) != 4 || params[0] != "scrypt" {
		return false
	}
	n, err := strconv.Atoi(params[1])
	if err != nil {
		return false
	}
	r, err := strconv.Atoi(params[2])
	if err != nil {
		return false
	}
	p, err := strconv.Atoi(params[3])
	if err != nil {
		return false
	}

	want, err := hex.DecodeString(digest)
	if err != nil || len(want) == 0 {
		return false
	}
	got, err := scrypt.Key([]byte(plaintext), []byte(salt), n, r, p, len(want))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}

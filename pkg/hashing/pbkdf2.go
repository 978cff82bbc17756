// Package hashing derives password and client-secret hashes with
// PBKDF2-HMAC-SHA256 and stores them base64 encoded.
package hashing

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	iterations = 100_000
	keySize    = 32
)

func derive(secret string, salt []byte) []byte {
	return pbkdf2.Key([]byte(secret), salt, iterations, keySize, sha256.New)
}

// HashPassword returns the hash and a fresh random salt.
func HashPassword(password string) (hash, salt string, err error) {
	s := make([]byte, saltSize)
	if _, err := rand.Read(s); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(derive(password, s)), base64.StdEncoding.EncodeToString(s), nil
}

// VerifyPassword compares in constant time. A missing or undecodable salt never verifies.
func VerifyPassword(password, storedHash, storedSalt string) bool {
	if storedSalt == "" {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(storedSalt)
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(storedHash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derive(password, salt), expected) == 1
}

// HashClientSecret uses the client id as salt so no separate salt is stored.
func HashClientSecret(secret, clientID string) string {
	return base64.StdEncoding.EncodeToString(derive(secret, []byte(clientID)))
}

func VerifyClientSecret(secret, clientID, storedHash string) bool {
	expected, err := base64.StdEncoding.DecodeString(storedHash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derive(secret, []byte(clientID)), expected) == 1
}

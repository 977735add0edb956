package services

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeSHA1     = "sha1"
	SchemeArgon2id = "argon2id"
	SchemeBcrypt   = "bcrypt"
)

// PasswordHasher hashes new passwords with one scheme and verifies stored
// hashes of any supported scheme.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) (bool, error)
}

// argon2Params is a seam so tests can use cheaper parameters.
var argon2Params = argon2id.DefaultParams

type passwordHasher struct {
	scheme string
}

// NewPasswordHasher returns a hasher producing scheme hashes.
func NewPasswordHasher(scheme string) (PasswordHasher, error) {
	switch scheme {
	case SchemeSHA1, SchemeArgon2id, SchemeBcrypt:
		return &passwordHasher{scheme: scheme}, nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedScheme, scheme)
}

func (h *passwordHasher) Hash(plain string) (string, error) {
	switch h.scheme {
	case SchemeArgon2id:
		return argon2id.CreateHash(plain, argon2Params)
	case SchemeBcrypt:
		b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return sha1Hex(plain), nil
	}
}

// Verify picks the scheme from the shape of encoded, so accounts created
// under an older scheme keep working after the configured one changes.
func (h *passwordHasher) Verify(plain, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return argon2id.ComparePasswordAndHash(plain, encoded)
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return err == nil, err
	case isSHA1Hex(encoded):
		return subtle.ConstantTimeCompare([]byte(sha1Hex(plain)), []byte(strings.ToLower(encoded))) == 1, nil
	}
	return false, common.ErrUnsupportedScheme
}

func sha1Hex(plain string) string {
	sum := sha1.Sum([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func isSHA1Hex(s string) bool {
	if len(s) != sha1.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

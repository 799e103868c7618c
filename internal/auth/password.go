// Password hashing. Accounts store two columns: a per-user random salt
// generated once at signup, and a deterministic digest derived from the
// plaintext and that salt. The digest is PBKDF2-SHA512, a deliberately slow
// salted hash, so a leaked database is expensive to brute-force and two
// users with the same password still end up with different digests.

package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes       = 64
	digestBytes     = 64
	defaultHashIter = 210_000
)

// PasswordService derives and verifies salted password digests.
//
// The iteration count is a struct field rather than a constant so tests can
// inject a small value and skip the deliberate slowness; production code
// always goes through NewPasswordService and gets the full count.
type PasswordService struct {
	iterations int
}

// NewPasswordService creates a PasswordService with the production
// iteration count.
func NewPasswordService() *PasswordService {
	return &PasswordService{iterations: defaultHashIter}
}

// NewPasswordServiceForTest creates a PasswordService with a reduced
// iteration count. Tests only; a low count is far too weak for real use.
func NewPasswordServiceForTest(iterations int) *PasswordService {
	return &PasswordService{iterations: iterations}
}

// GenerateSalt returns a fresh cryptographically random salt, base64
// encoded for storage. Called exactly once per account, at signup.
func GenerateSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generating salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Hash derives the hex-encoded digest of plaintext under the given salt.
// Deterministic: the same plaintext and salt always produce the same
// digest, which is what makes verification a recompute-and-compare.
func (p *PasswordService) Hash(plaintext, salt string) string {
	digest := pbkdf2.Key([]byte(plaintext), []byte(salt), p.iterations, digestBytes, sha512.New)
	return hex.EncodeToString(digest)
}

// Verify reports whether plaintext hashed under salt matches the stored
// digest. The comparison is constant-time so response timing reveals
// nothing about how much of the digest matched.
func (p *PasswordService) Verify(storedDigest, plaintext, salt string) bool {
	computed := p.Hash(plaintext, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedDigest)) == 1
}

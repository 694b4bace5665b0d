// Package transittest builds transit envelopes for tests, the way the VaultAPI
// server does. It is not used by the client at runtime.
package transittest

import (
	"crypto/rand"
	"encoding/base64"
	"testing"
	"time"

	"github.com/PolarWolf314/vaultapi/internal/transit"
)

// Clock is a frozen transit.Clock.
type Clock struct {
	T time.Time
}

func (c Clock) Now() time.Time { return c.T }

// At returns a Clock frozen at the given Unix second.
func At(unix int64) Clock {
	return Clock{T: time.Unix(unix, 0)}
}

// Seal encrypts plaintext with key and nonce and returns the base64 envelope.
func Seal(key, nonce, plaintext []byte, suite transit.Suite) (string, error) {
	aead, err := suite.AEAD(key)
	if err != nil {
		return "", err
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// SealAt derives the key for the bucket containing at and seals plaintext
// under a random nonce.
func SealAt(secret []byte, at time.Time, width uint64, keyLength int, suite transit.Suite, plaintext []byte) (string, error) {
	bucket, err := transit.Bucket(at, width)
	if err != nil {
		return "", err
	}
	key, err := transit.DeriveKeyForBucket(secret, bucket, keyLength)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, transit.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return Seal(key, nonce, plaintext, suite)
}

// MustSealAt is SealAt with AES-GCM that fails the test on error.
func MustSealAt(t testing.TB, secret string, at time.Time, width uint64, keyLength int, plaintext string) string {
	t.Helper()
	env, err := SealAt([]byte(secret), at, width, keyLength, transit.SuiteAESGCM, []byte(plaintext))
	if err != nil {
		t.Fatalf("sealing envelope: %v", err)
	}
	return env
}

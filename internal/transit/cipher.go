package transit

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

// Suite names the AEAD used to seal envelopes.
type Suite string

const (
	// SuiteAESGCM selects AES-GCM; the key length picks AES-128, AES-192 or AES-256.
	SuiteAESGCM Suite = "aes-gcm"

	// SuiteChaCha20Poly1305 selects ChaCha20-Poly1305 with a 32-byte key.
	SuiteChaCha20Poly1305 Suite = "chacha20poly1305"
)

// ParseSuite converts a configuration value into a Suite. The empty string is AES-GCM.
func ParseSuite(s string) (Suite, error) {
	switch Suite(strings.ToLower(strings.TrimSpace(s))) {
	case "", SuiteAESGCM:
		return SuiteAESGCM, nil
	case SuiteChaCha20Poly1305:
		return SuiteChaCha20Poly1305, nil
	}
	return "", fmt.Errorf("%w: unknown cipher suite %q", kerrors.ErrKey, s)
}

// KeySizes lists the key lengths the suite accepts.
func (s Suite) KeySizes() []int {
	if s == SuiteChaCha20Poly1305 {
		return []int{chacha20poly1305.KeySize}
	}
	return []int{16, 24, 32}
}

// AEAD constructs the cipher bound to key. Keys of the wrong size fail with ErrKey.
func (s Suite) AEAD(key []byte) (cipher.AEAD, error) {
	switch s {
	case "", SuiteAESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrKey, err)
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrKey, err)
		}
		return aead, nil
	case SuiteChaCha20Poly1305:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrKey, err)
		}
		return aead, nil
	}
	return nil, fmt.Errorf("%w: unknown cipher suite %q", kerrors.ErrKey, string(s))
}

func (s Suite) String() string {
	if s == "" {
		return string(SuiteAESGCM)
	}
	return string(s)
}

package secrets

import (
	"github.com/awnumar/memguard"

	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
)

// Credential holds the VaultAPI key in an encrypted memguard enclave. The
// plaintext only exists inside a locked buffer for the duration of Use.
type Credential struct {
	enclave *memguard.Enclave
}

// NewCredential seals apikey into an enclave and wipes the input slice.
func NewCredential(apikey []byte) (*Credential, error) {
	if len(apikey) == 0 {
		return nil, kerrors.ErrMissingAPIKey
	}
	return &Credential{enclave: memguard.NewEnclave(apikey)}, nil
}

// Use opens the enclave, hands the key to fn and destroys the buffer afterwards.
// fn must not retain the slice.
func (c *Credential) Use(fn func(apikey []byte) error) error {
	if c == nil || c.enclave == nil {
		return kerrors.ErrMissingAPIKey
	}
	buf, err := c.enclave.Open()
	if err != nil {
		return err
	}
	defer buf.Destroy()
	return fn(buf.Bytes())
}

// Bearer returns the Authorization header value for the key.
func (c *Credential) Bearer() (string, error) {
	var header string
	err := c.Use(func(apikey []byte) error {
		header = "Bearer " + string(apikey)
		return nil
	})
	return header, err
}

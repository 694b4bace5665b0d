package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
	logger "github.com/PolarWolf314/vaultapi/internal/logging"
)

const (
	CipherAESGCM           = "aes-gcm"
	CipherChaCha20Poly1305 = "chacha20poly1305"
)

// Settings is the merged runtime configuration. Field tags name the
// configuration keys used by every layer.
type Settings struct {
	APIKey              string        `koanf:"apikey"`
	Server              string        `koanf:"server" validate:"omitempty,http_url"`
	KeyLength           int           `koanf:"key_length" validate:"oneof=16 24 32"`
	TimeBucket          uint64        `koanf:"time_bucket" validate:"gt=0"`
	Cipher              string        `koanf:"cipher" validate:"oneof=aes-gcm chacha20poly1305"`
	AllowPreviousBucket bool          `koanf:"allow_previous_bucket"`
	Timeout             time.Duration `koanf:"timeout" validate:"gt=0"`
	Retries             int           `koanf:"retries" validate:"gte=0,lte=10"`
	RetryAuth           bool          `koanf:"retry_auth"`
	AuditLog            string        `koanf:"audit_log"`
}

// Defaults returns the settings used when no layer provides a value.
func Defaults() Settings {
	return Settings{
		KeyLength:  32,
		TimeBucket: 60,
		Cipher:     CipherAESGCM,
		Timeout:    30 * time.Second,
		Retries:    2,
		RetryAuth:  true,
	}
}

// RequireAPIKey reports ErrMissingAPIKey when no API key is configured.
func (s Settings) RequireAPIKey() error {
	if s.APIKey == "" {
		return kerrors.ErrMissingAPIKey
	}
	return nil
}

// RequireServer reports ErrMissingServer when no server URL is configured.
func (s Settings) RequireServer() error {
	if s.Server == "" {
		return kerrors.ErrMissingServer
	}
	return nil
}

// Redacted returns a copy safe for display.
func (s Settings) Redacted() Settings {
	if s.APIKey != "" {
		s.APIKey = logger.Redact(s.APIKey)
	}
	return s
}

// Profile returns the non-secret subset of s.
func (s Settings) Profile() Profile {
	retryAuth := s.RetryAuth
	return Profile{
		Server:              s.Server,
		KeyLength:           s.KeyLength,
		TimeBucket:          s.TimeBucket,
		Cipher:              s.Cipher,
		AllowPreviousBucket: s.AllowPreviousBucket,
		Timeout:             s.Timeout.String(),
		Retries:             s.Retries,
		RetryAuth:           &retryAuth,
		AuditLog:            s.AuditLog,
	}
}

// DefaultProfilePath returns $XDG_CONFIG_HOME/vaultapi/config.toml, or the
// platform equivalent.
func DefaultProfilePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error getting config directory: %w", err)
	}
	return filepath.Join(configDir, "vaultapi", "config.toml"), nil
}

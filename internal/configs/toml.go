package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
)

// Profile is the persisted, non-secret part of Settings.
type Profile struct {
	Server              string `toml:"server,omitempty"`
	KeyLength           int    `toml:"key_length,omitempty"`
	TimeBucket          uint64 `toml:"time_bucket,omitempty"`
	Cipher              string `toml:"cipher,omitempty"`
	AllowPreviousBucket bool   `toml:"allow_previous_bucket"`
	Timeout             string `toml:"timeout,omitempty"`
	Retries             int    `toml:"retries"`
	RetryAuth           *bool  `toml:"retry_auth,omitempty"`
	AuditLog            string `toml:"audit_log,omitempty"`
}

// SaveTOML saves a struct to a TOML file.
func SaveTOML(filePath string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0700); err != nil {
		return err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(data)
}

// LoadTOML loads a TOML file into a struct.
func LoadTOML(filePath string, data interface{}) (toml.MetaData, error) {
	return toml.DecodeFile(filePath, data)
}

// SaveProfile writes p to filePath, creating parent directories.
func SaveProfile(filePath string, p Profile) error {
	if err := SaveTOML(filePath, p); err != nil {
		return fmt.Errorf("failed to save profile %s: %w", filePath, err)
	}
	return nil
}

// LoadProfile reads the profile at filePath. It returns the profile and the
// configuration keys it defines. A missing file yields an empty profile.
func LoadProfile(filePath string) (Profile, map[string]any, error) {
	var p Profile
	md, err := LoadTOML(filePath, &p)
	if errors.Is(err, fs.ErrNotExist) {
		return Profile{}, map[string]any{}, nil
	}
	if err != nil {
		return Profile{}, nil, fmt.Errorf("%w: profile %s: %v", kerrors.ErrInvalidConfig, filePath, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			if strings.EqualFold(k.String(), "apikey") {
				return Profile{}, nil, fmt.Errorf("%w: profile %s must not contain the API key", kerrors.ErrInvalidConfig, filePath)
			}
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Profile{}, nil, fmt.Errorf("%w: profile %s has unknown keys: %s", kerrors.ErrInvalidConfig, filePath, strings.Join(keys, ", "))
	}

	values := map[string]any{}
	set := func(key string, v any) {
		if md.IsDefined(key) {
			values[key] = v
		}
	}
	set("server", p.Server)
	set("key_length", p.KeyLength)
	set("time_bucket", p.TimeBucket)
	set("cipher", p.Cipher)
	set("allow_previous_bucket", p.AllowPreviousBucket)
	set("timeout", p.Timeout)
	set("retries", p.Retries)
	if p.RetryAuth != nil {
		values["retry_auth"] = *p.RetryAuth
	}
	set("audit_log", p.AuditLog)

	return p, values, nil
}

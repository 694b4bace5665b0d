package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
)

// DefaultEnvFile is read when no env file is named.
const DefaultEnvFile = ".env"

// envKeys maps upper-cased environment variable names to configuration keys.
var envKeys = map[string]string{
	"APIKEY":                        "apikey",
	"VAULT_SERVER":                  "server",
	"TRANSIT_KEY_LENGTH":            "key_length",
	"TRANSMIT_KEY_LENGTH":           "key_length",
	"TRANSIT_TIME_BUCKET":           "time_bucket",
	"TRANSIT_CIPHER":                "cipher",
	"TRANSIT_ALLOW_PREVIOUS_BUCKET": "allow_previous_bucket",
	"VAULT_TIMEOUT":                 "timeout",
	"VAULT_RETRIES":                 "retries",
	"VAULT_RETRY_AUTH":              "retry_auth",
	"VAULT_AUDIT_LOG":               "audit_log",
}

// legacyEnvKeys are accepted only when their replacement is absent.
var legacyEnvKeys = map[string]string{
	"TRANSMIT_KEY_LENGTH": "TRANSIT_KEY_LENGTH",
}

// LoadOptions controls where Load reads from.
type LoadOptions struct {
	// EnvFile names the dotenv file. Empty means ENV_FILE, then ./.env.
	// A named file must exist; the fallback may be missing.
	EnvFile string

	// ProfilePath overrides DefaultProfilePath.
	ProfilePath string

	// SkipProfile disables the profile layer.
	SkipProfile bool

	// Environ replaces os.Environ.
	Environ func() []string

	// Overrides holds explicitly set flag values keyed by configuration key.
	Overrides map[string]any
}

// Result is the outcome of Load.
type Result struct {
	Settings    Settings
	EnvFile     string
	ProfilePath string
}

var (
	defaultLoader = func(k *koanf.Koanf) error {
		return k.Load(structs.Provider(Defaults(), "koanf"), nil)
	}

	profileLoader = func(k *koanf.Koanf, path string) error {
		_, values, err := LoadProfile(path)
		if err != nil {
			return err
		}
		return k.Load(mapProvider(values), nil)
	}

	envFileLoader = func(k *koanf.Koanf, path string, required bool) (bool, error) {
		vars, err := godotenv.Read(path)
		if err != nil {
			if !required && errors.Is(err, fs.ErrNotExist) {
				return false, nil
			}
			return false, fmt.Errorf("%w: env file %s: %v", kerrors.ErrInvalidConfig, path, err)
		}
		pairs := make([]string, 0, len(vars))
		for key, value := range vars {
			pairs = append(pairs, key+"="+value)
		}
		sort.Strings(pairs)
		return true, k.Load(envProvider(func() []string { return pairs }), nil)
	}

	envLoader = func(k *koanf.Koanf, environ func() []string) error {
		return k.Load(envProvider(environ), nil)
	}

	registerValidators = func(v *validator.Validate) error {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
			return name
		})
		v.RegisterStructValidation(validateCipherKeyLength, Settings{})
		return nil
	}
)

// Load merges every configuration layer and validates the result.
func Load(opts LoadOptions) (*Result, error) {
	environ := opts.Environ
	if environ == nil {
		environ = os.Environ
	}

	k := koanf.New(".")
	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	res := &Result{}
	if !opts.SkipProfile {
		path := opts.ProfilePath
		if path == "" {
			if p, err := DefaultProfilePath(); err == nil {
				path = p
			}
		}
		if path != "" {
			if err := profileLoader(k, path); err != nil {
				return nil, err
			}
			res.ProfilePath = path
		}
	}

	envFile, required := resolveEnvFile(opts.EnvFile, environ())
	found, err := envFileLoader(k, envFile, required)
	if err != nil {
		return nil, err
	}
	if found {
		res.EnvFile = envFile
	}

	if err := envLoader(k, environ); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(mapProvider(opts.Overrides), nil); err != nil {
			return nil, fmt.Errorf("error loading flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}

	if err := Validate(s); err != nil {
		return nil, err
	}
	res.Settings = s
	return res, nil
}

// Validate checks s against the settings rules.
func Validate(s Settings) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidators(v); err != nil {
		return fmt.Errorf("error registering validators: %w", err)
	}

	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", kerrors.ErrInvalidConfig, strings.Join(msgs, "; "))
}

func validateCipherKeyLength(sl validator.StructLevel) {
	s := sl.Current().Interface().(Settings)
	if s.Cipher == CipherChaCha20Poly1305 && s.KeyLength != 32 {
		sl.ReportError(s.KeyLength, "key_length", "KeyLength", "chacha_key_length", "")
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", fe.Field(), fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 0 and 10, got %v", fe.Field(), fe.Value())
	case "http_url":
		return fmt.Sprintf("%s must be an http(s) URL, got %q", fe.Field(), fe.Value())
	case "chacha_key_length":
		return fmt.Sprintf("%s must be 32 for %s, got %v", fe.Field(), CipherChaCha20Poly1305, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// resolveEnvFile returns the dotenv path and whether it must exist.
func resolveEnvFile(flagValue string, environ []string) (string, bool) {
	if flagValue != "" {
		return flagValue, true
	}
	for _, pair := range environ {
		key, value, ok := strings.Cut(pair, "=")
		if ok && strings.EqualFold(key, "ENV_FILE") && value != "" {
			return value, true
		}
	}
	return DefaultEnvFile, false
}

func envProvider(environ func() []string) *env.Env {
	return env.Provider(".", env.Opt{
		EnvironFunc: func() []string {
			return canonicalEnviron(environ())
		},
		TransformFunc: func(k, v string) (string, any) {
			key, ok := envKeys[strings.ToUpper(k)]
			v = strings.TrimSpace(v)
			if !ok || v == "" {
				return "", nil
			}
			return key, v
		},
	})
}

// canonicalEnviron drops legacy variables shadowed by their replacement.
func canonicalEnviron(pairs []string) []string {
	present := make(map[string]bool, len(pairs))
	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		if strings.TrimSpace(value) != "" {
			present[strings.ToUpper(key)] = true
		}
	}

	out := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		key, _, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		if replacement, ok := legacyEnvKeys[strings.ToUpper(key)]; ok && present[replacement] {
			continue
		}
		out = append(out, pair)
	}
	return out
}

// mapProvider serves an in-memory map of configuration keys.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("map provider does not support this method")
}

func (m mapProvider) Read() (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

// Package configs loads vaultapi settings.
//
// Settings are merged from five layers, lowest to highest precedence:
//
//   - built-in defaults (Defaults)
//   - the TOML profile at $XDG_CONFIG_HOME/vaultapi/config.toml
//   - a dotenv file (--env-file, ENV_FILE, or ./.env)
//   - the process environment
//   - command line flags that were explicitly set
//
// Environment variable names are matched case-insensitively. An empty
// variable is treated as unset. The legacy TRANSMIT_KEY_LENGTH spelling is
// accepted when TRANSIT_KEY_LENGTH is absent.
//
// The merged Settings are validated before they are returned; any invalid
// value yields an error wrapping errors.ErrInvalidConfig. The profile holds
// non-secret settings only and is rejected if it contains an API key.
//
// Nothing in this package mutates the process environment.
package configs

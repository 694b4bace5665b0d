// Package utils provides shared utility functions for the vaultapi CLI.
//
// # System Utilities
//
//   - GetUsername: returns the current system username
//
// # String Utilities
//
//   - SplitKeys: parses comma separated secret key lists
//   - FormatKeys: formats key names for human-readable output
//
// # I/O Utilities
//
//   - ReadStdin / ReadEnvelope: read a transit envelope from standard input
//
// # Terminal Utilities
//
//   - PromptAPIKey / PromptAPIKeyFromTTY: prompt for the API key without echo
package utils

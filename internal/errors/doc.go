// Package errors provides typed error values for the vaultapi client.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. The transit
// core, the HTTP client and the workflows all wrap these values, so the CLI
// layer can decide whether to retry, print a hint, or exit.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Transit errors: key derivation and envelope decryption (ErrClock, ErrDecode,
//     ErrShortEnvelope, ErrKey, ErrNonce, ErrAuthentication, ErrPayloadFormat)
//   - Configuration errors: missing or invalid settings (ErrMissingAPIKey, ErrInvalidConfig)
//   - Server errors: failures talking to VaultAPI (ErrServerUnavailable, ErrRequestFailed)
//   - Input errors: missing command arguments (ErrTableRequired, ErrKeyRequired)
//
// # Usage
//
// Return errors from internal packages:
//
//	if len(raw) < NonceSize {
//	    return nil, errors.ErrShortEnvelope
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := sess.GetSecret(ctx, table, key)
//	if errors.Is(err, kerrors.ErrAuthentication) {
//	    // Suggest checking the clock
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("decoding envelope: %w: %v", errors.ErrDecode, err)
package errors

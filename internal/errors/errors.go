package errors

import (
	"context"
	"errors"
)

// Transit errors are returned by key derivation and envelope decryption.
var (
	// ErrClock indicates the system clock reports a time before the Unix epoch.
	ErrClock = errors.New("system time is before the UNIX epoch")

	// ErrInvalidBucketWidth indicates a zero-width time bucket was requested.
	ErrInvalidBucketWidth = errors.New("transit time bucket must be greater than zero")

	// ErrDecode indicates the envelope is not valid standard base64.
	ErrDecode = errors.New("failed to decode ciphertext")

	// ErrShortEnvelope indicates the decoded envelope cannot hold a nonce.
	ErrShortEnvelope = errors.New("ciphertext is too short")

	// ErrKey indicates the derived key is unusable for the selected cipher.
	ErrKey = errors.New("invalid transit key")

	// ErrNonce indicates the envelope nonce was rejected by the cipher.
	ErrNonce = errors.New("invalid transit nonce")

	// ErrAuthentication indicates the authentication tag did not verify.
	// It does not say whether the envelope was tampered with or the key is stale.
	ErrAuthentication = errors.New("failed to decrypt data")

	// ErrPayloadFormat indicates the authenticated plaintext is not JSON.
	ErrPayloadFormat = errors.New("failed to parse decrypted data as JSON")
)

// Configuration errors indicate missing or malformed settings.
var (
	// ErrMissingAPIKey indicates no API key was configured.
	ErrMissingAPIKey = errors.New("APIKEY is not set")

	// ErrMissingServer indicates no VaultAPI server URL was configured.
	ErrMissingServer = errors.New("VAULT_SERVER is not set")

	// ErrInvalidConfig indicates a configuration value failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Server errors indicate failures while talking to the VaultAPI server.
var (
	// ErrServerUnavailable indicates the health check failed.
	ErrServerUnavailable = errors.New("vault server is unavailable")

	// ErrRequestFailed indicates the server answered with a non-success status.
	ErrRequestFailed = errors.New("vault server request failed")

	// ErrInvalidResponse indicates the server response is not valid JSON.
	ErrInvalidResponse = errors.New("failed to parse response as JSON")

	// ErrNoDetail indicates the response carried no detail member.
	ErrNoDetail = errors.New("no 'detail' key found in the response")

	// ErrUnexpectedDetail indicates the detail member has an unexpected type.
	ErrUnexpectedDetail = errors.New("unexpected value returned")
)

// Input errors indicate missing or invalid command arguments.
var (
	// ErrTableRequired indicates an operation was attempted without a table name.
	ErrTableRequired = errors.New("table name is mandatory")

	// ErrKeyRequired indicates an operation was attempted without a secret key.
	ErrKeyRequired = errors.New("secret key is mandatory")

	// ErrNoSecretsGiven indicates a put was attempted without any key/value pairs.
	ErrNoSecretsGiven = errors.New("no secrets given")
)

// Retryable reports whether err may succeed when retried with a freshly derived key.
// Only authentication failures qualify: near a bucket boundary the envelope and
// the local key can briefly disagree.
func Retryable(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

var categories = []error{
	ErrClock, ErrInvalidBucketWidth, ErrDecode, ErrShortEnvelope, ErrKey, ErrNonce,
	ErrAuthentication, ErrPayloadFormat,
	ErrMissingAPIKey, ErrMissingServer, ErrInvalidConfig,
	ErrServerUnavailable, ErrRequestFailed, ErrInvalidResponse, ErrNoDetail, ErrUnexpectedDetail,
	ErrTableRequired, ErrKeyRequired, ErrNoSecretsGiven,
	context.Canceled, context.DeadlineExceeded,
}

// Category returns the message of the first sentinel err wraps, dropping the
// request details and server text that follow it. Errors outside this package
// map to "unknown error"; nil maps to "".
func Category(err error) string {
	if err == nil {
		return ""
	}
	for _, sentinel := range categories {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "unknown error"
}

// Package transit implements the client side of VaultAPI transit encryption.
//
// The server encrypts every secret it returns with a short-lived key that both
// sides can compute without a handshake. This package derives that key and
// opens the resulting envelope.
//
// # Key Derivation
//
// Time is cut into buckets of a fixed width (60 seconds by default):
//
//	bucket = floor(unix_seconds / width)
//	key    = SHA256("{bucket}.{apikey}")[:key_length]
//
// All decryptions inside one bucket use the same key. An envelope opened in a
// later bucket fails authentication instead of decoding to garbage, which caps
// how long a captured envelope stays useful.
//
// # Envelope Layout
//
// Envelopes travel as standard base64 with padding:
//
//	nonce (12 bytes) || ciphertext || tag (16 bytes)
//
// The cipher is AES-GCM with the variant picked from the key length (16, 24 or
// 32 bytes), or ChaCha20-Poly1305 with a 32-byte key. No associated data is used.
//
// # Errors
//
// Every failure is one of the sentinels in internal/errors: ErrClock,
// ErrInvalidBucketWidth, ErrDecode, ErrShortEnvelope, ErrKey, ErrNonce,
// ErrAuthentication or ErrPayloadFormat. ErrAuthentication covers both a wrong
// key and a tampered envelope.
//
// # Concurrency
//
// Nothing here holds state between calls. A Decrypter is a plain value and can
// be shared between goroutines; every call allocates its own key and buffers
// and wipes the key before returning.
package transit

package transit

import (
	"encoding/json"
	"errors"

	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
)

// Decrypter ties key derivation to envelope decryption. Zero fields fall back
// to the defaults: system clock, 60 second buckets, 32-byte keys, AES-GCM.
type Decrypter struct {
	Clock       Clock
	BucketWidth uint64 // seconds
	KeyLength   int
	Suite       Suite

	// AllowPreviousBucket retries once with the previous bucket's key when the
	// current one fails authentication. Off by default.
	AllowPreviousBucket bool
}

// DecryptRaw opens envelope with the key for the current bucket and returns the JSON document.
func (d Decrypter) DecryptRaw(secret []byte, envelope string) (json.RawMessage, error) {
	env, err := ParseEnvelope(envelope)
	if err != nil {
		return nil, err
	}

	bucket, err := Bucket(d.clock().Now(), d.bucketWidth())
	if err != nil {
		return nil, err
	}

	plaintext, err := d.openForBucket(env, secret, bucket)
	if errors.Is(err, kerrors.ErrAuthentication) && d.AllowPreviousBucket && bucket > 0 {
		return d.openForBucket(env, secret, bucket-1)
	}
	return plaintext, err
}

// Decrypt is DecryptRaw followed by DecodeValue.
func (d Decrypter) Decrypt(secret []byte, envelope string) (any, error) {
	raw, err := d.DecryptRaw(secret, envelope)
	if err != nil {
		return nil, err
	}
	return DecodeValue(raw)
}

func (d Decrypter) openForBucket(env Envelope, secret []byte, bucket uint64) (json.RawMessage, error) {
	key, err := DeriveKeyForBucket(secret, bucket, d.keyLength())
	if err != nil {
		return nil, err
	}
	defer wipe(key)
	return env.Open(key, d.Suite)
}

func (d Decrypter) clock() Clock {
	if d.Clock == nil {
		return SystemClock{}
	}
	return d.Clock
}

func (d Decrypter) bucketWidth() uint64 {
	if d.BucketWidth == 0 {
		return DefaultBucketWidth
	}
	return d.BucketWidth
}

func (d Decrypter) keyLength() int {
	if d.KeyLength == 0 {
		return DefaultKeyLength
	}
	return d.KeyLength
}

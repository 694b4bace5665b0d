package transit

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"time"

	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
)

const (
	// DefaultBucketWidth is the transit time bucket in seconds.
	DefaultBucketWidth uint64 = 60

	// DefaultKeyLength is the derived key length in bytes (AES-256).
	DefaultKeyLength = 32
)

// Bucket returns the time bucket containing now: whole Unix seconds divided by
// width, rounded down. Times before the Unix epoch fail with ErrClock.
func Bucket(now time.Time, width uint64) (uint64, error) {
	if width == 0 {
		return 0, kerrors.ErrInvalidBucketWidth
	}
	secs := now.Unix()
	if secs < 0 {
		return 0, kerrors.ErrClock
	}
	return uint64(secs) / width, nil
}

// DeriveKeyForBucket hashes the decimal bucket, a '.' and the raw secret with
// SHA-256 and returns the first keyLength bytes of the digest.
func DeriveKeyForBucket(secret []byte, bucket uint64, keyLength int) ([]byte, error) {
	if keyLength <= 0 || keyLength > sha256.Size {
		return nil, fmt.Errorf("%w: key length %d outside 1..%d", kerrors.ErrKey, keyLength, sha256.Size)
	}

	h := sha256.New()
	h.Write(strconv.AppendUint(nil, bucket, 10))
	h.Write([]byte{'.'})
	h.Write(secret)
	sum := h.Sum(nil)

	key := make([]byte, keyLength)
	copy(key, sum)
	wipe(sum)
	return key, nil
}

// DeriveKey reads the clock once and derives the key for the current bucket.
func DeriveKey(clock Clock, secret []byte, width uint64, keyLength int) ([]byte, error) {
	bucket, err := Bucket(clock.Now(), width)
	if err != nil {
		return nil, err
	}
	return DeriveKeyForBucket(secret, bucket, keyLength)
}

func wipe(b []byte) {
	clear(b)
}

package transit_test

import (
	"crypto/sha256"
	"encoding/json"
	"sync"
	"testing"
	"time"

	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
	"github.com/PolarWolf314/vaultapi/internal/transit"
	"github.com/PolarWolf314/vaultapi/internal/transit/transittest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zeroNonceEnvelope seals {"a":1} with SHA256("2.s3cr3t") and an all-zero nonce.
func zeroNonceEnvelope(t *testing.T) string {
	t.Helper()
	key := sha256.Sum256([]byte("2.s3cr3t"))
	env, err := transittest.Seal(key[:], make([]byte, transit.NonceSize), []byte(`{"a":1}`), transit.SuiteAESGCM)
	require.NoError(t, err)
	return env
}

func TestDecryptFrozenClockScenario(t *testing.T) {
	env := zeroNonceEnvelope(t)

	d := transit.Decrypter{Clock: transittest.At(120), BucketWidth: 60, KeyLength: 32}
	v, err := d.Decrypt([]byte("s3cr3t"), env)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": json.Number("1")}, v)

	d.Clock = transittest.At(185)
	_, err = d.Decrypt([]byte("s3cr3t"), env)
	assert.ErrorIs(t, err, kerrors.ErrAuthentication)
}

func TestDecryptDefaults(t *testing.T) {
	env := zeroNonceEnvelope(t)

	d := transit.Decrypter{Clock: transittest.At(150)}
	raw, err := d.DecryptRaw([]byte("s3cr3t"), env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))
}

func TestDecryptNextBucketFails(t *testing.T) {
	secret := "apikey"
	for _, at := range []int64{0, 59, 60, 1_700_000_039} {
		sealedAt := time.Unix(at, 0)
		env := transittest.MustSealAt(t, secret, sealedAt, 60, 32, `{"k":"v"}`)

		same := transit.Decrypter{Clock: transittest.Clock{T: sealedAt}}
		_, err := same.Decrypt([]byte(secret), env)
		require.NoError(t, err, "sealed at %d", at)

		next := transit.Decrypter{Clock: transittest.Clock{T: sealedAt.Add(60 * time.Second)}}
		_, err = next.Decrypt([]byte(secret), env)
		assert.ErrorIs(t, err, kerrors.ErrAuthentication, "sealed at %d", at)
	}
}

func TestDecryptWrongSecretFails(t *testing.T) {
	env := transittest.MustSealAt(t, "right", time.Unix(600, 0), 60, 32, `{}`)
	d := transit.Decrypter{Clock: transittest.At(600)}
	_, err := d.Decrypt([]byte("wrong"), env)
	assert.ErrorIs(t, err, kerrors.ErrAuthentication)
}

func TestDecryptKeyLengthBoundaries(t *testing.T) {
	for _, size := range []int{16, 24, 32} {
		env := transittest.MustSealAt(t, "apikey", time.Unix(900, 0), 60, size, `{"size":"ok"}`)
		d := transit.Decrypter{Clock: transittest.At(930), KeyLength: size}
		_, err := d.Decrypt([]byte("apikey"), env)
		assert.NoError(t, err, "key length %d", size)
	}

	env := transittest.MustSealAt(t, "apikey", time.Unix(900, 0), 60, 32, `{}`)
	for _, size := range []int{8, 20, 31} {
		d := transit.Decrypter{Clock: transittest.At(900), KeyLength: size}
		_, err := d.Decrypt([]byte("apikey"), env)
		assert.ErrorIs(t, err, kerrors.ErrKey, "key length %d", size)
	}
}

func TestDecryptChaCha20Poly1305(t *testing.T) {
	env, err := transittest.SealAt([]byte("apikey"), time.Unix(900, 0), 60, 32, transit.SuiteChaCha20Poly1305, []byte(`{"c":true}`))
	require.NoError(t, err)

	d := transit.Decrypter{Clock: transittest.At(900), Suite: transit.SuiteChaCha20Poly1305}
	v, err := d.Decrypt([]byte("apikey"), env)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"c": true}, v)

	d.Suite = transit.SuiteAESGCM
	_, err = d.Decrypt([]byte("apikey"), env)
	assert.ErrorIs(t, err, kerrors.ErrAuthentication)
}

func TestDecryptDecodeErrorBeforeCrypto(t *testing.T) {
	d := transit.Decrypter{Clock: transittest.At(-5), KeyLength: 7}
	_, err := d.Decrypt([]byte("apikey"), "%%%")
	assert.ErrorIs(t, err, kerrors.ErrDecode)
}

func TestDecryptClockError(t *testing.T) {
	env := zeroNonceEnvelope(t)
	d := transit.Decrypter{Clock: transittest.At(-1)}
	_, err := d.Decrypt([]byte("s3cr3t"), env)
	assert.ErrorIs(t, err, kerrors.ErrClock)
}

func TestDecryptPreviousBucketFallback(t *testing.T) {
	env := transittest.MustSealAt(t, "apikey", time.Unix(179, 0), 60, 32, `{"edge":1}`)

	strict := transit.Decrypter{Clock: transittest.At(181)}
	_, err := strict.Decrypt([]byte("apikey"), env)
	assert.ErrorIs(t, err, kerrors.ErrAuthentication)

	lenient := transit.Decrypter{Clock: transittest.At(181), AllowPreviousBucket: true}
	v, err := lenient.Decrypt([]byte("apikey"), env)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"edge": json.Number("1")}, v)

	lenient.Clock = transittest.At(245)
	_, err = lenient.Decrypt([]byte("apikey"), env)
	assert.ErrorIs(t, err, kerrors.ErrAuthentication)
}

func TestDecryptPreviousBucketDoesNotMaskOtherErrors(t *testing.T) {
	key := sha256.Sum256([]byte("3.apikey"))
	env, err := transittest.Seal(key[:], make([]byte, transit.NonceSize), []byte("not json"), transit.SuiteAESGCM)
	require.NoError(t, err)

	d := transit.Decrypter{Clock: transittest.At(200), AllowPreviousBucket: true}
	_, err = d.Decrypt([]byte("apikey"), env)
	assert.ErrorIs(t, err, kerrors.ErrPayloadFormat)
}

func TestDecryptConcurrentUse(t *testing.T) {
	env := zeroNonceEnvelope(t)
	d := transit.Decrypter{Clock: transittest.At(120)}

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.Decrypt([]byte("s3cr3t"), env)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

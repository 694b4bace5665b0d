package transit

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
)

// NonceSize is the length of the nonce prefix of every envelope.
const NonceSize = 12

// Envelope is a decoded transit envelope.
type Envelope struct {
	Nonce  []byte
	Sealed []byte // ciphertext followed by the authentication tag
}

// ParseEnvelope base64-decodes s and splits off the nonce. No cryptography happens here.
func ParseEnvelope(s string) (Envelope, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", kerrors.ErrDecode, err)
	}
	if len(raw) < NonceSize {
		return Envelope{}, fmt.Errorf("%w: %d bytes, need at least %d", kerrors.ErrShortEnvelope, len(raw), NonceSize)
	}
	return Envelope{Nonce: raw[:NonceSize], Sealed: raw[NonceSize:]}, nil
}

// Open authenticates and decrypts the envelope with key and checks that the
// plaintext is UTF-8 JSON. Unauthenticated bytes are never returned.
func (e Envelope) Open(key []byte, suite Suite) (json.RawMessage, error) {
	aead, err := suite.AEAD(key)
	if err != nil {
		return nil, err
	}
	if len(e.Nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: got %d bytes, cipher wants %d", kerrors.ErrNonce, len(e.Nonce), aead.NonceSize())
	}

	plaintext, err := aead.Open(nil, e.Nonce, e.Sealed, nil)
	if err != nil {
		return nil, kerrors.ErrAuthentication
	}
	if !utf8.Valid(plaintext) || !json.Valid(plaintext) {
		wipe(plaintext)
		return nil, kerrors.ErrPayloadFormat
	}
	return json.RawMessage(plaintext), nil
}

// OpenRaw parses and opens envelope, returning the JSON document as raw bytes.
func OpenRaw(key []byte, envelope string, suite Suite) (json.RawMessage, error) {
	env, err := ParseEnvelope(envelope)
	if err != nil {
		return nil, err
	}
	return env.Open(key, suite)
}

// Open parses and opens envelope and decodes the JSON document. Numbers are
// kept as json.Number so integers survive unchanged.
func Open(key []byte, envelope string, suite Suite) (any, error) {
	raw, err := OpenRaw(key, envelope, suite)
	if err != nil {
		return nil, err
	}
	return DecodeValue(raw)
}

// DecodeValue decodes a JSON document into maps, slices and json.Number values.
func DecodeValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrPayloadFormat, err)
	}
	return v, nil
}

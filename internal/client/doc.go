// Package client talks to the VaultAPI server over HTTP.
//
// Every request carries a bearer token built from the API key, an
// Accept: application/json header and a fresh X-Request-ID. Transient
// failures (connection errors, 429 and 5xx responses) are retried by
// go-retryablehttp; the number of retries and the per-attempt timeout come
// from the loaded settings.
//
// Successful responses are JSON objects whose "detail" member carries the
// payload. Do returns that member untouched: for reads it is a transit
// envelope, for writes a server message. Decryption happens in the
// workflows package.
package client

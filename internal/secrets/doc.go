// Package secrets keeps the VaultAPI API key in protected memory.
//
// The key is sealed in a memguard enclave as soon as it is read. It is only
// decrypted into a locked buffer for the duration of a Use callback, for
// example to build the Authorization header or to derive a transit key, and
// the buffer is destroyed afterwards.
//
// The package never writes the key to disk. Callers should install
// memguard.CatchInterrupt and call memguard.Purge before exiting so that
// enclave keys are wiped on every exit path.
package secrets

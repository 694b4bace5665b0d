// Package workflows provides high-level orchestration for vaultapi commands.
//
// Workflows coordinate multiple packages (configs, secrets, client, transit,
// audit) to implement complete user-facing operations. Each workflow handles
// a single command's business logic, independent of CLI concerns like flag
// parsing, spinners, and output formatting.
//
// # Sessions
//
// A Session bundles the validated settings, the API key credential, the HTTP
// client, the transit decrypter and the audit trail for one invocation:
//
//	sess, err := workflows.NewSession(ctx, settings, workflows.SessionOptions{})
//	result, err := sess.GetSecret(ctx, "prod", "db_password")
//
// NewSession runs the server health check unless SkipHealthCheck is set.
// Offline sessions only support Decrypt.
//
// # Responses
//
// The server wraps every payload in a "detail" member. Reads expect it to be
// a transit envelope and decrypt it; a missing or null detail is
// ErrNoDetail and any other shape is ErrUnexpectedDetail. Writes return the
// detail as-is.
//
// When decryption fails authentication and RetryAuth is enabled, the
// envelope is fetched once more: the server seals with the bucket current
// when it answers, so a reply that crosses a bucket boundary is recovered by
// the second fetch.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package. Use
// errors.Is() to check for specific conditions:
//
//	_, err := sess.GetTable(ctx, "prod")
//	if errors.Is(err, kerrors.ErrAuthentication) {
//	    // The API key is wrong or the clocks disagree.
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
package workflows

// Package audit records vaultapi operations in a local audit trail.
//
// Every operation that reaches the VaultAPI server (or decrypts an
// envelope locally) appends one entry when an audit log path is configured
// through VAULT_AUDIT_LOG or audit_log in the profile. An empty path
// disables the trail.
//
// # Log Format
//
// The log is JSON Lines (one JSON object per line). Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Local user name
//   - Operation name
//   - Table and secret key names, never secret values
//   - The X-Request-ID sent to the server
//   - Outcome ("ok" or "error") and the error text on failure
//
// # Usage
//
//	trail := audit.New(settings.AuditLog)
//	trail.Log(audit.Entry{Operation: "get-secret", Table: "prod", Keys: []string{"db"}})
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit

// Package logger provides leveled logging for vaultapi CLI commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is formatted with colored prefixes from fatih/color.
//
// # Verbosity Levels
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details and HTTP retries
//
// Warnings and errors are always shown on stderr.
//
// # Log Methods
//
//	Logger.Infof()   // Shown with --verbose or --debug
//	Logger.Debugf()  // Shown only with --debug
//	Logger.Warnf()   // Always shown
//	Logger.Errorf()  // Always shown
//
// # Secrets
//
// Never log API keys or decrypted values. Use Redact when a credential has
// to appear in debug output at all.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Fetching table %s", table)
//
// The root command creates the logger in PersistentPreRun and hands it to
// the workflows session.
package logger

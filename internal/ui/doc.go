// Package ui formats vaultapi CLI output.
//
// Status lines use semantic formatters that are colorized on capable
// terminals. When NO_COLOR is set or the terminal doesn't support colors,
// text decorations (backticks, quotes) are used instead.
//
// # Semantic Formatters
//
//	ui.Code.Sprint("vaultapi health")        // Commands
//	ui.URL.Sprint("https://vault.local")     // Server addresses
//	ui.Name.Sprint("production")             // Tables and secret keys
//	ui.Success.Sprint("✓")                    // Success indicators
//	ui.Error.Sprint("✗")                      // Error indicators
//	ui.Info.Sprint("→")                       // Hints
//	ui.Muted.Sprint("60s bucket")            // De-emphasized text
//
// # Results
//
// Command results are JSON documents written to stdout by RenderJSON,
// without colors so they can be piped into other tools.
package ui

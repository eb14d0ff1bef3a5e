// Package logging builds the zap logger shared by the CLI and the extension
// flows. Console encoding on stderr keeps log lines out of command output.
package logging

// Package cli defines the Cobra command tree for the flykit CLI. Each file
// registers one top-level command with the root command and delegates the
// work to the internal packages.
package cli

// Package userdata resolves the on-disk layout under ~/.expb/: the
// extensions registry root, the download cache and the settings file.
// Every location can be redirected with a FLYKIT_* environment variable,
// which is how tests and portable installs sandbox the CLI.
package userdata

// Package config manages user settings stored at ~/.expb/settings.json.
// Settings is an explicit object: callers Load it once, pass it into the
// code that needs it, and Save it after changing a key. Environment
// variables with the FLYKIT_ prefix override file values.
package config

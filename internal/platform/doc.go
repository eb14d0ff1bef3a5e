// Package platform hides permission differences between Windows and
// Unix-like systems.
package platform

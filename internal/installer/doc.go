// Package installer downloads the browser executable for first-time installs.
// Downloads run on a background goroutine and report progress as messages
// on a channel; the file is written next to its destination and renamed into
// place once complete and verified.
package installer

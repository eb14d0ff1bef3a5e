// Package extension manages browser extensions installed as folders under a
// registry root. It unpacks .ebx packages, installs them after the user
// consents, removes them with a bounded retry policy and registers their
// content scripts with a host render surface.
package extension

package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions compares two extension versions using semver.
// Returns -1 if a < b, 0 if equal, 1 if a > b. Short forms such as "1.0"
// and a leading "v" are accepted.
func CompareVersions(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", a, err)
	}
	bv, err := parseSemver(b)
	if err != nil {
		return 0, fmt.Errorf("parsing version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}

// DescribeUpgrade returns "upgrade", "downgrade" or "reinstall" for moving
// from the installed version to the incoming one, or "" when either version
// is not semver-like.
func DescribeUpgrade(installed, incoming string) string {
	cmp, err := CompareVersions(installed, incoming)
	if err != nil {
		return ""
	}
	switch cmp {
	case -1:
		return "upgrade"
	case 1:
		return "downgrade"
	default:
		return "reinstall"
	}
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}

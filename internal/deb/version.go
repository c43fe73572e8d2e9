package deb

import (
	"strings"

	"pault.ag/go/debian/version"

	"deb2pac/internal/models"
)

// ParseVersion parses a Debian [epoch:]upstream[-revision] version
// string into its triple.
func ParseVersion(s string) (version.Version, error) {
	return version.Parse(s)
}

// CompareVersions compares two Debian version strings. The result is
// negative when a sorts before b, zero when equal, positive otherwise.
// Unparseable input compares as older than anything parseable.
func CompareVersions(a, b string) int {
	av, aerr := version.Parse(a)
	bv, berr := version.Parse(b)
	if aerr != nil && berr != nil {
		return strings.Compare(a, b)
	}
	if aerr != nil {
		return -1
	}
	if berr != nil {
		return 1
	}
	return version.Compare(av, bv)
}

// ConstraintSatisfied reports whether candidate satisfies the given
// version constraint. A nil constraint is always satisfied; versions
// that do not parse never are.
func ConstraintSatisfied(candidate string, c *models.VersionConstraint) bool {
	if c == nil {
		return true
	}
	cv, err := version.Parse(candidate)
	if err != nil {
		return false
	}
	wv, err := version.Parse(c.Version)
	if err != nil {
		return false
	}
	cmp := version.Compare(cv, wv)
	switch c.Op {
	case "<<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case "=":
		return cmp == 0
	case ">=":
		return cmp >= 0
	case ">>":
		return cmp > 0
	}
	return false
}

// CleanVersion rewrites a Debian version string into the grammar the
// target package manager accepts: the epoch is dropped and characters
// outside the accepted set become underscores.
func CleanVersion(s string) string {
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	return strings.NewReplacer("-", "_", "~", "_", "+", "_").Replace(s)
}

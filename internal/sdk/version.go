package sdk

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// ErrInvalidVersion is returned for version strings that cannot be parsed
var ErrInvalidVersion = errors.New("invalid SDK version")

// ParseVersion parses a dotted SDK version such as "10.0.22621.0" or "8.1"
func ParseVersion(s string) (*goversion.Version, error) {
	v, err := goversion.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidVersion, s, err)
	}
	return v, nil
}

// CompareVersions returns -1, 0 or 1. Unparseable versions sort before parseable
// ones and are compared as plain strings among themselves.
func CompareVersions(a, b string) int {
	va, errA := goversion.NewVersion(a)
	vb, errB := goversion.NewVersion(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return va.Compare(vb)
}

// SameVersion reports whether two versions are equal ignoring trailing zero segments,
// so "10.0.22621" and "10.0.22621.0" match
func SameVersion(a, b string) bool {
	return canonical(a) == canonical(b)
}

// AtLeast reports whether v >= min. Unparseable versions never satisfy the bound.
func AtLeast(v string, min *goversion.Version) bool {
	parsed, err := goversion.NewVersion(v)
	if err != nil {
		return false
	}
	return parsed.GreaterThanOrEqual(min)
}

func canonical(s string) string {
	v, err := goversion.NewVersion(s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	segs := v.Segments()
	for len(segs) > 1 && segs[len(segs)-1] == 0 {
		segs = segs[:len(segs)-1]
	}
	parts := make([]string, len(segs))
	for i, seg := range segs {
		parts[i] = strconv.Itoa(seg)
	}
	return strings.Join(parts, ".")
}

// isKitsVersion matches directory names under Include, e.g. "10.0.19041.0"
func isKitsVersion(name string) bool {
	if strings.Count(name, ".") != 3 {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if _, err := strconv.Atoi(part); err != nil {
			return false
		}
	}
	return true
}

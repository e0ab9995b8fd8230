package pyversion

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrNoVersions is returned when no version survives selection.
var ErrNoVersions = errors.New("no matching python versions")

// releasePattern matches the subset of PEP 440 that interpreter distributions use for their versions.
var releasePattern = regexp.MustCompile(`(?i)^v?(\d+(?:\.\d+){0,2})` +
	`(?:[._-]?(a|alpha|b|beta|c|rc|pre|preview)[._-]?(\d*))?` +
	`(?:[._-]?(post|rev|r)[._-]?(\d*))?` +
	`(?:[._-]?(dev)[._-]?(\d*))?$`)

// Version is a python interpreter version. The text is retained as reported by the tool it came from since that is
// the form the tool expects to be given back.
type Version struct {
	text   string
	dev    bool
	semver *semver.Version
}

// Parse parses a python version such as "3.11.4", "3.13.0rc1" or "3.12".
func Parse(text string) (*Version, error) {
	text = strings.TrimSpace(text)
	normalized, err := normalize(text)
	if err != nil {
		return nil, err
	}

	sv, err := semver.NewVersion(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid python version %q: %w", text, err)
	}

	return &Version{
		text:   text,
		semver: sv,
	}, nil
}

// MustParse is like Parse but panics on invalid input.
func MustParse(text string) *Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseToolToken parses a version token as printed by pyenv, where anything after the first "-" is a build
// qualifier (e.g. "3.12-dev"). Only the part before the qualifier is parsed, though a "dev" qualifier marks the
// version as unstable. The token is kept whole so it can be handed back to pyenv.
func ParseToolToken(token string) (*Version, error) {
	token = strings.TrimSpace(token)
	base, qualifier, _ := strings.Cut(token, "-")

	v, err := Parse(base)
	if err != nil {
		return nil, err
	}

	v.text = token
	v.dev = strings.HasPrefix(strings.ToLower(qualifier), "dev")
	return v, nil
}

func normalize(text string) (string, error) {
	m := releasePattern.FindStringSubmatch(text)
	if m == nil {
		return "", fmt.Errorf("invalid python version %q", text)
	}

	var pre []string
	if m[2] != "" {
		pre = append(pre, preReleaseLabel(m[2]), numberOrZero(m[3]))
	}
	if m[6] != "" {
		pre = append(pre, "dev", numberOrZero(m[7]))
	}

	out := m[1]
	if len(pre) > 0 {
		out += "-" + strings.Join(pre, ".")
	}
	if m[4] != "" {
		out += "+post." + numberOrZero(m[5])
	}
	return out, nil
}

func preReleaseLabel(label string) string {
	switch strings.ToLower(label) {
	case "a", "alpha":
		return "a"
	case "b", "beta":
		return "b"
	}
	return "rc"
}

func numberOrZero(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}

// String returns the version as originally written.
func (v Version) String() string {
	return v.text
}

func (v Version) Semver() *semver.Version {
	return v.semver
}

// IsStable reports whether the version is a final release.
func (v Version) IsStable() bool {
	return v.semver.Prerelease() == "" && !v.dev
}

// Equal compares versions by value, ignoring how they were written.
func (v Version) Equal(o *Version) bool {
	if o == nil {
		return false
	}
	return v.semver.Equal(o.semver) && v.dev == o.dev
}

// Select returns the versions that are both allowed by the constraint and stable, preserving order.
func Select(versions []*Version, constraint *Constraint) []*Version {
	var allowed []*Version
	for _, v := range versions {
		if v == nil || !v.IsStable() {
			continue
		}
		if constraint != nil && !constraint.Allows(v) {
			continue
		}
		allowed = append(allowed, v)
	}
	return allowed
}

// Latest returns the last of the given versions. Callers are expected to provide versions in ascending order, as
// pyenv lists them.
func Latest(versions []*Version) (*Version, error) {
	if len(versions) == 0 {
		return nil, ErrNoVersions
	}
	return versions[len(versions)-1], nil
}

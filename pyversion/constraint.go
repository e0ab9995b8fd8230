package pyversion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	orSeparator  = regexp.MustCompile(`\s*\|\|?\s*`)
	andSeparator = regexp.MustCompile(`\s*,\s*|\s+`)
	clausePrefix = regexp.MustCompile(`^(===|==|!=|~=|<=|>=|<|>|\^|~|=)?\s*`)
	// joins an operator that is separated from its version by whitespace, e.g. ">= 3.8"
	looseOperator = regexp.MustCompile(`(===|==|!=|~=|<=|>=|<|>|\^|~|=)\s+`)
)

// Constraint is a set of acceptable python versions, written in the syntax used by project metadata
// (e.g. "^3.9", ">=3.8,<3.12", "~=3.10", "3.11.*").
type Constraint struct {
	text        string
	constraints *semver.Constraints
}

// AnyVersion allows every version.
func AnyVersion() *Constraint {
	c, _ := ParseConstraint("*")
	return c
}

// ParseConstraint parses a python version constraint.
func ParseConstraint(text string) (*Constraint, error) {
	text = strings.TrimSpace(text)
	translated, err := translate(text)
	if err != nil {
		return nil, err
	}

	c, err := semver.NewConstraint(translated)
	if err != nil {
		return nil, fmt.Errorf("invalid python version constraint %q: %w", text, err)
	}
	c.IncludePrerelease = true

	return &Constraint{
		text:        text,
		constraints: c,
	}, nil
}

// Allows reports whether the version satisfies the constraint.
func (c Constraint) Allows(v *Version) bool {
	if v == nil {
		return false
	}
	return c.constraints.Check(v.semver)
}

// String returns the constraint as originally written.
func (c Constraint) String() string {
	if c.text == "" {
		return "*"
	}
	return c.text
}

func translate(text string) (string, error) {
	if text == "" {
		return "*", nil
	}

	text = looseOperator.ReplaceAllString(text, "$1")

	var groups []string
	for _, group := range orSeparator.Split(text, -1) {
		var clauses []string
		for _, clause := range andSeparator.Split(strings.TrimSpace(group), -1) {
			if clause == "" {
				continue
			}
			translated, err := translateClause(clause)
			if err != nil {
				return "", fmt.Errorf("invalid python version constraint %q: %w", text, err)
			}
			clauses = append(clauses, translated...)
		}
		if len(clauses) == 0 {
			return "", fmt.Errorf("invalid python version constraint %q: empty clause", text)
		}
		groups = append(groups, strings.Join(clauses, ", "))
	}

	return strings.Join(groups, " || "), nil
}

func translateClause(clause string) ([]string, error) {
	if clause == "*" {
		return []string{"*"}, nil
	}

	op := clausePrefix.FindStringSubmatch(clause)[1]
	raw := strings.TrimSpace(clause[len(clausePrefix.FindString(clause)):])
	if raw == "" {
		return nil, fmt.Errorf("missing version in %q", clause)
	}

	if strings.HasSuffix(raw, ".*") || raw == "*" {
		return translateWildcard(op, raw)
	}

	version, err := normalize(raw)
	if err != nil {
		return nil, err
	}

	switch op {
	case "~=":
		return compatibleRelease(version)
	case "===", "==":
		op = "="
	}

	return []string{op + version}, nil
}

func translateWildcard(op, raw string) ([]string, error) {
	prefix := strings.TrimSuffix(strings.TrimSuffix(raw, "*"), ".")
	if prefix == "" {
		return []string{"*"}, nil
	}
	if _, err := normalize(prefix); err != nil {
		return nil, err
	}

	switch op {
	case "", "=", "==":
		return []string{prefix + ".x"}, nil
	case "!=":
		return []string{"!=" + prefix + ".x"}, nil
	}
	return nil, fmt.Errorf("wildcard not allowed with operator %q", op)
}

// compatibleRelease expands "~=X.Y[.Z]" into ">=X.Y[.Z], <X+1[.Y+1]".
func compatibleRelease(version string) ([]string, error) {
	release, _, _ := strings.Cut(version, "-")
	release, _, _ = strings.Cut(release, "+")
	parts := strings.Split(release, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("compatible release clause requires at least two components: %q", version)
	}

	bump := parts[:len(parts)-1]
	last, err := strconv.Atoi(bump[len(bump)-1])
	if err != nil {
		return nil, err
	}
	upper := append(append([]string{}, bump[:len(bump)-1]...), strconv.Itoa(last+1))

	return []string{">=" + version, "<" + strings.Join(upper, ".")}, nil
}

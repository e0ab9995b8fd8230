package pyversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraint_Allows(t *testing.T) {
	tests := []struct {
		constraint string
		allowed    []string
		disallowed []string
	}{
		{
			constraint: "^3.9",
			allowed:    []string{"3.9.0", "3.12.1"},
			disallowed: []string{"3.8.18", "4.0.0"},
		},
		{
			constraint: "~3.10",
			allowed:    []string{"3.10.0", "3.10.13"},
			disallowed: []string{"3.11.0", "3.9.18"},
		},
		{
			constraint: "~=3.10",
			allowed:    []string{"3.10.0", "3.12.1"},
			disallowed: []string{"4.0.0", "3.9.18"},
		},
		{
			constraint: "~=3.10.2",
			allowed:    []string{"3.10.2", "3.10.13"},
			disallowed: []string{"3.11.0", "3.10.1"},
		},
		{
			constraint: ">=3.8,<3.12",
			allowed:    []string{"3.8.0", "3.11.7"},
			disallowed: []string{"3.12.0", "3.7.17"},
		},
		{
			constraint: ">= 3.8 < 3.12",
			allowed:    []string{"3.8.0", "3.11.7"},
			disallowed: []string{"3.12.0", "3.7.17"},
		},
		{
			constraint: "3.11.*",
			allowed:    []string{"3.11.0", "3.11.7"},
			disallowed: []string{"3.12.0", "3.10.1"},
		},
		{
			constraint: ">=3.9,!=3.10.*",
			allowed:    []string{"3.9.1", "3.11.7"},
			disallowed: []string{"3.10.4", "3.8.0"},
		},
		{
			constraint: "~2.7 || ^3.10",
			allowed:    []string{"2.7.18", "3.11.7"},
			disallowed: []string{"3.9.18", "2.6.9"},
		},
		{
			constraint: "~2.7 | ^3.10",
			allowed:    []string{"2.7.18", "3.11.7"},
			disallowed: []string{"3.9.18"},
		},
		{
			constraint: "==3.11.4",
			allowed:    []string{"3.11.4"},
			disallowed: []string{"3.11.5"},
		},
		{
			constraint: "*",
			allowed:    []string{"2.7.18", "3.13.0"},
		},
		{
			constraint: "",
			allowed:    []string{"3.13.0"},
		},
		{
			constraint: ">=3.9",
			allowed:    []string{"3.13.0rc1"},
			disallowed: []string{"3.8.0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			c, err := ParseConstraint(tt.constraint)
			require.NoError(t, err)

			for _, v := range tt.allowed {
				assert.Truef(t, c.Allows(MustParse(v)), "expected %q to allow %q", tt.constraint, v)
			}
			for _, v := range tt.disallowed {
				assert.Falsef(t, c.Allows(MustParse(v)), "expected %q to disallow %q", tt.constraint, v)
			}
			assert.False(t, c.Allows(nil))
		})
	}
}

func TestParseConstraint_Invalid(t *testing.T) {
	for _, input := range []string{">=", "~=3", ">=abc", ">3.*"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseConstraint(input)
			require.Error(t, err)
		})
	}
}

func TestConstraint_String(t *testing.T) {
	c, err := ParseConstraint(" ^3.9 ")
	require.NoError(t, err)
	assert.Equal(t, "^3.9", c.String())
	assert.Equal(t, "*", AnyVersion().String())
}

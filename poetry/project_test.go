package poetry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchore/poetenv/pyversion"
)

func TestLoadProject(t *testing.T) {
	tests := []struct {
		name           string
		dir            string
		wantName       string
		wantConstraint string
		allows         string
		disallows      string
		wantErr        require.ErrorAssertionFunc
	}{
		{
			name:           "poetry dependency string",
			dir:            "testdata/poetry-project",
			wantName:       "example",
			wantConstraint: "^3.10",
			allows:         "3.12.1",
			disallows:      "3.9.18",
		},
		{
			name:           "poetry dependency table",
			dir:            "testdata/table-python",
			wantName:       "tabled",
			wantConstraint: ">=3.9,<3.13",
			allows:         "3.9.0",
			disallows:      "3.13.0",
		},
		{
			name:           "project requires-python",
			dir:            "testdata/pep621-project",
			wantName:       "modern",
			wantConstraint: ">=3.11",
			allows:         "3.11.0",
			disallows:      "3.10.13",
		},
		{
			name:           "no python requirement",
			dir:            "testdata/no-python",
			wantName:       "anything-goes",
			wantConstraint: "*",
			allows:         "2.7.18",
		},
		{
			name:    "python dependency of the wrong type",
			dir:     "testdata/invalid",
			wantErr: require.Error,
		},
		{
			name:    "missing project file",
			dir:     "testdata",
			wantErr: require.Error,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr == nil {
				tt.wantErr = require.NoError
			}
			got, err := LoadProject(tt.dir)
			tt.wantErr(t, err)
			if err != nil {
				return
			}
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.dir, got.Dir)
			assert.Equal(t, tt.wantConstraint, got.PythonConstraint.String())
			if tt.allows != "" {
				assert.True(t, got.PythonConstraint.Allows(pyversion.MustParse(tt.allows)))
			}
			if tt.disallows != "" {
				assert.False(t, got.PythonConstraint.Allows(pyversion.MustParse(tt.disallows)))
			}
		})
	}
}

func TestFindProject(t *testing.T) {
	want, err := filepath.Abs("testdata/poetry-project")
	require.NoError(t, err)

	got, err := FindProject("testdata/poetry-project/src/pkg")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = FindProject(t.TempDir())
	require.Error(t, err)
}

package pyenv

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/google/shlex"
)

func renderInstallArgs(argTemplate, version string) ([]string, error) {
	if argTemplate == "" {
		return nil, nil
	}

	tmpl, err := template.New("install-args").Funcs(sprig.TxtFuncMap()).Parse(argTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid install args template: %w", err)
	}

	buf := bytes.Buffer{}
	err = tmpl.Execute(&buf, map[string]string{
		"Version": version,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to render install args: %w", err)
	}

	args, err := shlex.Split(buf.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse install args: %v", err)
	}
	return args, nil
}

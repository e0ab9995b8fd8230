package command

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/itchyny/gojq"
	"github.com/jedib0t/go-pretty/table"
	"github.com/pkg/errors"
	"github.com/scylladb/go-set/strset"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/anchore/clio"
	"github.com/anchore/poetenv/cmd/poetenv/cli/option"
	"github.com/anchore/poetenv/internal/bus"
	"github.com/anchore/poetenv/internal/log"
	"github.com/anchore/poetenv/pyenv"
	"github.com/anchore/poetenv/pyversion"
)

type VersionsConfig struct {
	Config           string `json:"config" yaml:"config" mapstructure:"config"`
	option.AppConfig `json:"" yaml:",inline" mapstructure:",squash"`
	option.Project   `json:"" yaml:",inline" mapstructure:",squash"`
	option.Versions  `json:"" yaml:",inline" mapstructure:",squash"`
	Format           option.Format `json:"format" yaml:"format" mapstructure:"format"`
}

func Versions(app clio.Application) *cobra.Command {
	cfg := &VersionsConfig{
		AppConfig: option.DefaultAppConfig(),
		Format:    option.DefaultFormat(),
	}

	return app.SetupCommand(&cobra.Command{
		Use:   "versions",
		Short: "List installed (or installable) python versions and whether the project allows them",
		Aliases: []string{
			"ls",
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersions(cmd.Context(), *cfg)
		},
	}, cfg)
}

type versionStatus struct {
	Version   string `json:"version" yaml:"version"`
	Stable    bool   `json:"stable" yaml:"stable"`
	Installed bool   `json:"installed" yaml:"installed"`
	Allowed   bool   `json:"allowed" yaml:"allowed"`
	Local     bool   `json:"local" yaml:"local"`
}

func runVersions(ctx context.Context, cfg VersionsConfig) error {
	dir, constraint, err := versionsScope(cfg)
	if err != nil {
		return err
	}

	client := pyenvClient(cfg.AppConfig, dir)

	var (
		installed []*pyversion.Version
		remote    []*pyversion.Version
		local     *pyversion.Version
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		installed, err = client.InstalledVersions(gctx)
		return errors.Wrap(err, "unable to list installed python versions")
	})
	if cfg.Remote {
		g.Go(func() error {
			var err error
			remote, err = client.RemoteVersions(gctx)
			return errors.Wrap(err, "unable to list installable python versions")
		})
	}
	g.Go(func() error {
		var err error
		local, err = client.LocalVersion(gctx)
		if errors.Is(err, pyenv.ErrInvalidPin) {
			log.Warnf("ignoring local python version: %v", err)
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	listed := installed
	if cfg.Remote {
		listed = remote
	}

	items := summarizeVersions(listed, installed, local, constraint, cfg.Allowed)
	if len(items) == 0 && cfg.Format.Output == option.TableFormat {
		bus.Notify("no python versions found")
		return nil
	}

	report, err := formatVersions(cfg.Format, items)
	if err != nil {
		return err
	}
	bus.Report(report)
	return nil
}

// versionsScope determines where pyenv runs and which constraint versions are checked against. Outside of a project
// every version is allowed, unless the caller asked to filter by the project's constraint.
func versionsScope(cfg VersionsConfig) (string, *pyversion.Constraint, error) {
	dir, err := cfg.Project.Resolve()
	if err == nil {
		project, err := loadProject(ProjectConfig{AppConfig: cfg.AppConfig, Project: option.Project{Dir: dir}})
		if err != nil {
			return "", nil, err
		}
		return project.Dir, project.PythonConstraint, nil
	}

	if cfg.Allowed {
		return "", nil, err
	}

	log.WithFields("error", err).Debug("not within a project, all versions are allowed")
	return cfg.Project.Dir, pyversion.AnyVersion(), nil
}

func summarizeVersions(listed, installed []*pyversion.Version, local *pyversion.Version, constraint *pyversion.Constraint, allowedOnly bool) []versionStatus {
	installedSet := strset.New(versionStrings(installed)...)

	items := make([]versionStatus, 0, len(listed))
	for _, v := range listed {
		allowed := v.IsStable() && constraint.Allows(v)
		if allowedOnly && !allowed {
			continue
		}
		items = append(items, versionStatus{
			Version:   v.String(),
			Stable:    v.IsStable(),
			Installed: installedSet.Has(v.String()),
			Allowed:   allowed,
			Local:     local != nil && local.Equal(v),
		})
	}
	return items
}

func formatVersions(format option.Format, items []versionStatus) (string, error) {
	switch format.Output {
	case option.JSONFormat:
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return "", fmt.Errorf("unable to encode versions: %w", err)
		}
		if format.JQCommand != "" {
			return applyJQ(format.JQCommand, data)
		}
		return string(data), nil
	case option.YAMLFormat:
		data, err := yaml.Marshal(items)
		if err != nil {
			return "", fmt.Errorf("unable to encode versions: %w", err)
		}
		return string(data), nil
	case option.TableFormat, "":
		return versionsTable(items), nil
	}
	return "", fmt.Errorf("unsupported output format: %q", format.Output)
}

func applyJQ(expr string, data []byte) (string, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return "", fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}

	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return "", err
	}

	var results []string
	iter := query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return "", fmt.Errorf("unable to apply jq expression %q: %w", expr, err)
		}
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		results = append(results, string(out))
	}
	return strings.Join(results, "\n"), nil
}

func versionsTable(items []versionStatus) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false

	t.AppendHeader(table.Row{"Version", "Installed", "Allowed", ""})

	for _, item := range items {
		style := versionStyle(item)

		var commentary string
		switch {
		case item.Local:
			commentary = "(local)"
		case !item.Stable:
			commentary = "(pre-release)"
		}

		t.AppendRow(table.Row{
			style.Render(item.Version),
			yesNo(item.Installed),
			yesNo(item.Allowed),
			style.Render(commentary),
		})
	}

	return t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var (
	localVersion      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))  // 10 = high intensity green (ANSI 16 bit color code)
	disallowedVersion = lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // 214 = orange1 (ANSI 16 bit color code)
)

func versionStyle(item versionStatus) lipgloss.Style {
	switch {
	case item.Local:
		return localVersion
	case !item.Allowed:
		return disallowedVersion
	}
	return lipgloss.NewStyle()
}

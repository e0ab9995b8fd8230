package cli

import (
	"os"
	"strings"

	"github.com/anchore/clio"
	"github.com/anchore/go-logger"
	"github.com/anchore/poetenv/cmd/poetenv/cli/command"
	"github.com/anchore/poetenv/cmd/poetenv/cli/internal/ui"
	handler "github.com/anchore/poetenv/cmd/poetenv/cli/ui"
	"github.com/anchore/poetenv/internal/bus"
	"github.com/anchore/poetenv/internal/log"
)

// New constructs the poetenv application: the commands, the application configuration each command loads, and the
// UI that renders events while a command runs.
func New(id clio.Identification) clio.Application {
	clioCfg := clio.NewSetupConfig(id).
		WithGlobalConfigFlag().   // add persistent -c <path> for reading an application config from
		WithGlobalLoggingFlags(). // add persistent -v and -q flags tied to the logging config
		WithConfigInRootHelp().   // --help on the root command renders the full application config in the help text
		WithUIConstructor(
			// select a UI based on the logging configuration and state of stdin (if stdin is a tty)
			func(cfg clio.Config) ([]clio.UI, error) {
				noUI := ui.None(cfg.Log.Quiet)
				if !cfg.Log.AllowUI(os.Stdin) || cfg.Log.Quiet || handsOffTerminal(os.Args) {
					return []clio.UI{noUI}, nil
				}

				return []clio.UI{
					ui.New(cfg.Log.Quiet,
						handler.New(handler.DefaultHandlerConfig()),
					),
					noUI,
				}, nil
			},
		).
		WithLoggingConfig(clio.LoggingConfig{
			// warnings (such as pyenv not being found) are always shown
			Level: logger.WarnLevel,
		}).
		WithInitializers(
			func(state *clio.State) error {
				// clio is setting up and providing the bus and logger to the application. Once loaded, we can hoist
				// them into the internal packages for global use.
				bus.Set(state.Bus)
				log.Set(state.Logger)

				return nil
			},
		)

	app := clio.New(*clioCfg)

	root := command.Root(app)

	root.AddCommand(
		clio.VersionCommand(id),
		command.Exec(app),
		command.Env(app),
		command.Local(app),
		command.Install(app),
		command.Versions(app),
		command.Which(app),
	)

	return app
}

// handsOffTerminal reports whether the invoked command gives the terminal to poetry, in which case no UI may draw on it.
func handsOffTerminal(args []string) bool {
	for i := 1; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "exec" || arg == "poetry":
			return true
		case arg == "-c" || arg == "--config":
			i++
		case !strings.HasPrefix(arg, "-"):
			return false
		}
	}
	return false
}

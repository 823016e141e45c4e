package cli

import (
	"fmt"
	"os"
	"strings"

	"lostaf-cli/internal/api"
	"lostaf-cli/internal/config"
	"lostaf-cli/internal/format"
	"lostaf-cli/internal/logging"
	"lostaf-cli/internal/store"
	"lostaf-cli/internal/tui"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type App struct {
	Server     string
	PrettyJSON bool
	Format     string

	dir    string
	store  store.Store
	client *api.Client
	logger zerolog.Logger
	ready  bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "lostaf",
		Short:        "LostAF campus lost-and-found portal client (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  lostaf

  # Sign in with the redirect URL the browser lands on after college login
  lostaf login "https://portal.example/dashboard#session_id=..."

  # Scriptable commands
  lostaf items list --type lost --category Electronics
  lostaf items mine

  # Direct item lookup (shortcut for: lostaf items show <item-id>)
  lostaf 3c2d8a1e-4f0b-4b9e-9d57-0b1f6c2a7e41
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", "", "Portal origin (overrides build-time URL, LOSTAF_SERVER and config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("LOSTAF_FORMAT", "json"), "Output format (json)")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newAdminCmd(app))
	cmd.AddCommand(newQRCmd(app))

	return cmd
}

// setup resolves the portal origin and builds the shared client. Resolution
// happens once per invocation; the origin never changes between calls so
// the session cookie stays consistently scoped.
func (app *App) setup() error {
	if app.ready {
		return nil
	}

	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("state dir: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	app.dir = dir
	app.store = store.Store{Dir: dir}
	app.logger = logging.New(dir)

	origin := config.ResolveServerURL(app.Server, cfg)
	client, err := api.New(origin, app.store, app.logger)
	if err != nil {
		return err
	}
	app.client = client
	app.ready = true
	return nil
}

func runTUI(app *App) error {
	if err := app.setup(); err != nil {
		return err
	}
	return tui.Run(tui.Deps{
		Client: app.client,
		Store:  app.store,
		Logger: app.logger,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

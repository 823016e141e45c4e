package cli

import (
	"errors"
	"fmt"
	"net/url"

	"lostaf-cli/internal/api"
	"lostaf-cli/internal/session"

	"github.com/spf13/cobra"
)

// authPortalURL is the external identity provider's entry point. The
// browser lands back on the portal with a #session_id fragment, which the
// user pastes into `lostaf login`.
const authPortalURL = "https://auth.emergentagent.com/"

func newLoginCmd(app *App) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "login [redirect-url]",
		Short: "Sign in by exchanging the one-time session token from the auth redirect",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}

			raw := sessionID
			if raw == "" && len(args) == 1 {
				raw = args[0]
			}
			if raw == "" {
				redirect := app.client.Origin() + "/dashboard"
				fmt.Fprintf(cmd.OutOrStdout(),
					"Open this URL in a browser, sign in with your college account,\nthen run `lostaf login <redirect-url>` with the URL the browser lands on:\n\n  %s?redirect=%s\n",
					authPortalURL, url.QueryEscape(redirect))
				return nil
			}

			id := session.ParseFragment(raw)
			if id == "" {
				return fmt.Errorf("no session_id found in %q", raw)
			}

			// Hand the one-time token to the session manager; it consumes
			// the token exactly once, success or failure.
			if err := app.store.SavePendingSessionID(cmd.Context(), id); err != nil {
				return fmt.Errorf("stash login token: %w", err)
			}
			mgr := session.NewManager(app.client, app.store, app.logger)
			if mgr.Init(cmd.Context()) != session.StateAuthenticated {
				return errors.New("login failed: the token was rejected (tokens are single-use; request a fresh one)")
			}
			return writeOut(cmd, app, mgr.User())
		},
	}

	cmd.Flags().StringVar(&sessionID, "session-id", "", "Bare one-time session id (alternative to pasting the redirect URL)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session (local state is cleared even if the server is unreachable)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			mgr := session.NewManager(app.client, app.store, app.logger)
			mgr.Logout(cmd.Context())
			return writeOut(cmd, app, map[string]string{"status": "signed out"})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(); err != nil {
				return err
			}
			u, err := app.client.Me(cmd.Context())
			if errors.Is(err, api.ErrAuthRequired) {
				return errors.New("not signed in; run `lostaf login`")
			}
			if err != nil {
				return err
			}
			return writeOut(cmd, app, u)
		},
	}
}

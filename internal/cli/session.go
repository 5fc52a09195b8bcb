package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/cricketstats-go/internal/view"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session inspection commands",
	}

	cmd.AddCommand(newSessionStatusCmd())

	return cmd
}

func newSessionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := app.Session.Snapshot(ctx)
			if err != nil {
				return err
			}

			status := view.SessionStatus{
				LoggedIn: sess.LoggedIn,
				Username: sess.Username,
				HasToken: sess.Token != "",
				Store:    app.StorageType,
			}

			expiry, ok, err := app.Session.TokenExpiry(ctx)
			if err != nil {
				return err
			}
			if ok {
				status.ExpiresAt = &expiry
				status.Expired = !app.Clock.Now().Before(expiry)
			}

			out.Print(status)
			return nil
		},
	}
}

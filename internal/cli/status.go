package cli

import (
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the resolved session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			status := SessionStatus{
				State:         string(app.Session.State()),
				Authenticated: app.Session.IsAuthenticated(),
			}

			if status.Authenticated {
				identity := app.Session.Identity()
				status.Username = identity.Username
				status.Role = string(identity.Role)
				status.Source = string(app.Session.Source())

				if claims, err := app.Codec.Decode(app.Session.Token()); err == nil {
					status.TokenExpires = claims.ExpiresAt
				}
			}

			NewOutput(cfg.Output).Print(status)
			return nil
		},
	}
}

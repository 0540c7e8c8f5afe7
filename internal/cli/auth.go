package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkelsey/devportal/internal/model"
	"github.com/mkelsey/devportal/internal/session/gateway"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, message := app.Session.Login(cmd.Context(), email, password)
			if !ok {
				return fmt.Errorf("login failed: %s", message)
			}

			out := NewOutput(cfg.Output)
			if app.Session.Source() == gateway.SourceLocal {
				out.PrintMessage("identity service unavailable, using local session")
			}
			out.Print(app.Session.Identity())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Session.Logout(cmd.Context())

			NewOutput(cfg.Output).PrintMessage("logged out")
			return nil
		},
	}
}

func newRegisterCmd() *cobra.Command {
	var username, email, password, role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, message := app.Session.Register(cmd.Context(), gateway.RegisterParams{
				Username: username,
				Email:    email,
				Password: password,
				Role:     model.Role(role),
			})
			if !ok {
				return fmt.Errorf("registration failed: %s", message)
			}

			NewOutput(cfg.Output).Print(app.Session.Identity())
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (required)")
	cmd.Flags().StringVar(&role, "role", "", "Account role: admin, content_manager, developer")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newCreateAccountCmd() *cobra.Command {
	var username, email, password, role string

	cmd := &cobra.Command{
		Use:   "create-account",
		Short: "Create an account without signing in to it",
		Long: `Create an account without adopting its session. Useful for admins
provisioning accounts for other people while staying signed in themselves.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Session.HasPermission(model.RoleAdmin) {
				return fmt.Errorf("create-account requires an admin session")
			}

			ok, message := app.Session.CreateAccount(cmd.Context(), gateway.RegisterParams{
				Username: username,
				Email:    email,
				Password: password,
				Role:     model.Role(role),
			})
			if !ok {
				return fmt.Errorf("account creation failed: %s", message)
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("account %s created", email))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (required)")
	cmd.Flags().StringVar(&role, "role", "", "Account role: admin, content_manager, developer")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			identity := app.Session.Profile(cmd.Context())
			if identity == nil {
				return fmt.Errorf("not signed in")
			}

			NewOutput(cfg.Output).Print(identity)
			return nil
		},
	}
}

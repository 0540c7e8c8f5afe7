package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkelsey/devportal/internal/factory"
)

var (
	cfg *Config
	app *factory.App
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "devportal",
		Short: "CLI tool for the developer portal identity service",
		Long: `devportal is a CLI tool for the developer portal's session and
identity subsystem.

It manages account registration, login sessions, and profile data. When the
identity service is unreachable the CLI falls back to a local substitute, so
every command keeps working offline.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
			if cfg.Verbose {
				logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				}))
			}

			app = factory.New(factory.Config{
				ServerURL:  cfg.ServerURL,
				ForceLocal: cfg.Local,
				TokenFile:  cfg.TokenFile,
				Logger:     logger,
			})

			// Resolve any persisted session before the command runs
			app.Session.Init(cmd.Context())
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Identity service URL (env: DEVPORTAL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: DEVPORTAL_TOKEN_FILE)")
	rootCmd.PersistentFlags().BoolVar(&cfg.Local, "local", cfg.Local, "Serve everything from the local substitute (env: DEVPORTAL_LOCAL)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newCreateAccountCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newFavoritesCmd())
	rootCmd.AddCommand(newStatusCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

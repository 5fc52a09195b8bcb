package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/cricketstats-go/internal/dependencies/clock"
	"github.com/mcoot/cricketstats-go/internal/factory"
	"github.com/mcoot/cricketstats-go/internal/view"
)

var (
	cfg *Config
	app *factory.App
	out *view.Console

	// clockOverride replaces the real clock when set
	clockOverride clock.Clock
)

// errReported is returned once the failure has already been shown to the user
var errReported = errors.New("failure already reported")

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	dotEnvErr := LoadDotEnv(DotEnvFile)
	cfg = DefaultConfig()
	app, out = nil, nil

	rootCmd := &cobra.Command{
		Use:   "cricket",
		Short: "CLI client for the cricket stats API",
		Long: `cricket is a command line client for the cricket stats API.

It signs users up and in, keeps the session between runs, and shows the
stats dashboard as text, JSON or an HTML page.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dotEnvErr != nil {
				return dotEnvErr
			}

			out = view.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Output)

			fc := cfg.FactoryConfig(cfg.Logger(cmd.ErrOrStderr()))
			fc.View = out
			fc.OnNavigate = out.Navigated
			fc.Clock = clockOverride

			a, err := factory.New(fc)
			if err != nil {
				return err
			}
			app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "API server URL (env: CRICKET_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.SessionStore, "session-store", cfg.SessionStore, "Session store: memory, file, redis (env: CRICKET_SESSION_STORE)")
	rootCmd.PersistentFlags().StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "Session file path (env: CRICKET_SESSION_FILE)")
	rootCmd.PersistentFlags().StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL for the redis session store (env: CRICKET_REDIS_URL)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: CRICKET_OUTPUT)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	rootCmd.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout (0 disables)")

	// Add subcommands
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newStrengthCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newMeCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newMatchCmd())

	return rootCmd
}

// Run executes the CLI with the given arguments and streams.
// It returns the process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			console := out
			if console == nil {
				console = view.NewConsole(stdout, stderr, cfg.Output)
			}
			console.PrintError(err)
		}
		return 1
	}
	return 0
}

// Execute runs the root command
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

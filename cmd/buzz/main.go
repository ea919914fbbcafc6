package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"buzz/cmd/buzz/login"
	"buzz/cmd/buzz/ui"
	"buzz/internal/auth/otp"
	"buzz/internal/config"
	"buzz/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "buzz",
	Short: "buzz - sign in to Buzz with an emailed one-time passcode",
	Long: `buzz signs you in to a Buzz account without a password.

Enter your email, receive a six-digit passcode, and enter it to sign in.
Only existing accounts can sign in; new accounts are not created here.

Run without arguments to start the interactive sign-in screen.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it logs to file)
		if cmd.Use == "buzz" && cmd.CalledAs() == "buzz" {
			return nil
		}

		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveLogin(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.buzz/config.yaml)")

	rootCmd.AddCommand(sendCodeCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

// loadConfig reads and validates the config for commands that talk to the
// auth backend.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newGateway(cfg *config.Config, log *zap.Logger) (*otp.Client, error) {
	return otp.NewClient(cfg.Auth.URL, cfg.Auth.AnonKey,
		otp.WithTimeout(cfg.GetAuthTimeout()),
		otp.WithLogger(log),
	)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// runInteractiveLogin shows the sign-in screen until the user signs in or quits.
func runInteractiveLogin(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logsDir := cfg.Logging.Dir
	if logsDir == "" {
		logsDir = filepath.Join(filepath.Dir(resolvedConfigPath()), "logs")
	}
	if err := logging.Initialize(logsDir, cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.CloseAll()
	logging.Boot("starting interactive sign-in", zap.String("auth_url", cfg.Auth.URL))

	client, err := newGateway(cfg, logging.Get(logging.CategoryAuth))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	m := login.New(login.Options{
		Gateway:      client,
		Styles:       ui.NewStyles(ui.ThemeFor(cfg.UI.Theme)),
		Logger:       logging.Get(logging.CategoryUI),
		Context:      ctx,
		QuitOnSignIn: true,
	})

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(login.Model); ok && fm.Session() != nil {
		printSignedIn(cmd, fm.Session())
	}
	return nil
}

func printSignedIn(cmd *cobra.Command, s *otp.Session) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Signed in as %s\n", s.Email())
	if exp := s.Expiry(); !exp.IsZero() {
		fmt.Fprintf(out, "  Session expires %s\n", exp.Local().Format("2006-01-02 15:04:05"))
	}
}

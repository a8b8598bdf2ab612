// disha is a terminal client for the Disha career-guidance service:
// self-assessment, AI career recommendations and a counselor chat, all in
// one dashboard. Run without arguments to start the interactive UI.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"disha/cmd/disha/dash"
	"disha/internal/api"
	"disha/internal/config"
	"disha/internal/logging"
	"disha/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	// Global flags
	apiURL  string
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "disha",
	Short: "Disha - AI career guidance in your terminal",
	Long: `Disha is a terminal client for the Disha career-guidance service.

Fill in a self-assessment, generate AI career recommendations from it,
and chat with the career counselor. Sessions persist under ~/.disha, so
you stay logged in between runs.

Run without arguments to start the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in and persist the session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := ""
		if len(args) > 0 {
			email = args[0]
		}
		return runLogin(cmd.Context(), email, false)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register [email]",
	Short: "Create an account and persist the session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := ""
		if len(args) > 0 {
			email = args[0]
		}
		return runLogin(cmd.Context(), email, true)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := buildEnvironment()
		if err != nil {
			return err
		}
		if !store.Authenticated() {
			fmt.Println("Not logged in.")
			return nil
		}
		if err := store.Logout(); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := buildEnvironment()
		if err != nil {
			return err
		}
		p, ok := store.Principal()
		if !ok {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("%s <%s>\n", p.Name, p.Email)
		return nil
	},
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle: the closure references rootCmd.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The dashboard owns the terminal; it gets a file logger instead.
		if cmd == rootCmd {
			return nil
		}
		var err error
		logger, err = logging.NewCLI(verbose)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

// buildEnvironment loads config, restores any persisted session and wires
// the API client to it.
func buildEnvironment() (config.Config, *session.Store, *api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}

	dir, err := config.Dir()
	if err != nil {
		return cfg, nil, nil, err
	}
	store := session.NewStore(dir)
	if err := store.Restore(); err != nil {
		return cfg, nil, nil, fmt.Errorf("restoring session: %w", err)
	}

	client := api.New(cfg.APIBaseURL, store, api.WithTimeout(cfg.RequestTimeout))
	return cfg, store, client, nil
}

func runDashboard() error {
	cfg, store, client, err := buildEnvironment()
	if err != nil {
		return err
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	fileLogger, err := logging.NewTUI(dir, cfg.Debug || verbose)
	if err != nil {
		fileLogger = logging.Nop()
	}
	defer func() { _ = fileLogger.Sync() }()

	model := dash.New(cfg, store, client, fileLogger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

// runLogin handles both login and register; the only difference is the
// extra name prompt and the endpoint.
func runLogin(ctx context.Context, email string, register bool) error {
	_, store, client, err := buildEnvironment()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	if email == "" {
		email, err = prompt(reader, "Email: ")
		if err != nil {
			return err
		}
	}

	var name string
	if register {
		name, err = prompt(reader, "Name: ")
		if err != nil {
			return err
		}
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	var auth api.Authorization
	if register {
		auth, err = client.Register(ctx, name, email, string(password))
	} else {
		auth, err = client.Login(ctx, email, string(password))
	}
	if err != nil {
		return err
	}

	if err := store.Login(auth); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	logger.Info("session established", zap.String("email", auth.Principal.Email))
	fmt.Printf("Logged in as %s <%s>.\n", auth.Principal.Name, auth.Principal.Email)
	return nil
}

func prompt(r *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

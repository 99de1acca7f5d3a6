// Package main implements the genesisctl command line interface: an
// interactive console for the Genesis orchestrator plus one-shot subcommands
// for scripting against it.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"genesisctl/cmd/genesisctl/chat"
	"genesisctl/internal/api"
	"genesisctl/internal/config"
	"genesisctl/internal/logging"
)

var (
	workspace string
	apiURL    string
	debugLogs bool
)

// rootCmd launches the interactive console when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "genesisctl",
	Short: "Genesis orchestrator console",
	Long: `genesisctl is a terminal console for the Genesis orchestrator.

It keeps a chat transcript, the task roadmap and the ingested knowledge
base in sync with the backend, and ships builtin widgets (calculator,
notes, drive picker, image viewer) on a plugin overlay.

Run without arguments to start the interactive console.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace directory (default: cwd)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "orchestrator base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "write category log files under .genesis/logs")

	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(systemCmd)
	rootCmd.AddCommand(queryCmd)
}

// resolveWorkspace returns the --workspace flag or the current directory.
func resolveWorkspace() string {
	if workspace != "" {
		return workspace
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// loadConfig reads the workspace configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(resolveWorkspace())
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if debugLogs {
		cfg.Debug = true
	}
	return cfg, nil
}

// newClient builds a one-shot API client for subcommands.
func newClient() (*api.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	ws := resolveWorkspace()
	if err := logging.Initialize(ws, cfg.Debug); err != nil {
		return nil, err
	}
	return api.New(cfg.APIURL, cfg.RequestTimeout.Std(), logging.Get(logging.CategoryAPI)), nil
}

// runConsole starts the TUI behind a panic guard. An escaped panic must not
// leave the terminal in raw mode or vanish without explanation.
func runConsole() (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	session, err := chat.NewSession(resolveWorkspace(), cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	defer func() {
		if rec := recover(); rec != nil {
			fmt.Fprintf(os.Stderr, "\ngenesisctl crashed: %v\n\n%s\n", rec, debug.Stack())
			fmt.Fprintln(os.Stderr, "The console hit an unrecoverable error. Please restart with:")
			fmt.Fprintln(os.Stderr, "  genesisctl")
			err = fmt.Errorf("console crashed: %v", rec)
		}
	}()

	p := tea.NewProgram(session.Model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

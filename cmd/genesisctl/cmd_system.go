// System control subcommands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Inspect and control the orchestrator",
	RunE:  runSystemStatus,
}

var systemStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend health and execution mode",
	RunE:  runSystemStatus,
}

var systemModeCmd = &cobra.Command{
	Use:   "mode <LOCAL|CLOUD>",
	Short: "Switch the execution mode",
	Args:  cobra.ExactArgs(1),
	RunE:  runSystemMode,
}

var systemSyncCmd = &cobra.Command{
	Use:   "sync <push|pull>",
	Short: "Trigger a cloud synchronization",
	Args:  cobra.ExactArgs(1),
	RunE:  runSystemSync,
}

var systemBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Trigger a backend backup",
	RunE:  runSystemBackup,
}

func init() {
	systemCmd.AddCommand(systemStatusCmd)
	systemCmd.AddCommand(systemModeCmd)
	systemCmd.AddCommand(systemSyncCmd)
	systemCmd.AddCommand(systemBackupCmd)
}

func runSystemStatus(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if err := client.Health(cmd.Context()); err != nil {
		fmt.Println("Backend: unreachable")
		return err
	}
	fmt.Println("Backend: healthy")

	status, err := client.SystemStatus(cmd.Context())
	if err != nil {
		return fmt.Errorf("system status: %w", err)
	}
	fmt.Printf("Mode: %s\n", status.Mode)
	return nil
}

func runSystemMode(cmd *cobra.Command, args []string) error {
	mode := args[0]
	if mode != "LOCAL" && mode != "CLOUD" {
		return fmt.Errorf("mode must be LOCAL or CLOUD, got %q", mode)
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	if err := client.SetSystemMode(cmd.Context(), mode); err != nil {
		return fmt.Errorf("set mode: %w", err)
	}
	fmt.Printf("Mode set to %s\n", mode)
	return nil
}

func runSystemSync(cmd *cobra.Command, args []string) error {
	direction := args[0]
	if direction != "push" && direction != "pull" {
		return fmt.Errorf("direction must be push or pull, got %q", direction)
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	if err := client.TriggerSync(cmd.Context(), direction); err != nil {
		return fmt.Errorf("trigger sync: %w", err)
	}
	fmt.Printf("Sync %s started\n", direction)
	return nil
}

func runSystemBackup(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	result, err := client.TriggerBackup(cmd.Context())
	if err != nil {
		return fmt.Errorf("trigger backup: %w", err)
	}
	fmt.Printf("Backup written to %s\n", result.Path)
	return nil
}

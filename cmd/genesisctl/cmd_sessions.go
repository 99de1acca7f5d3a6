// Session management subcommands.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// =============================================================================
// SESSION COMMANDS
// =============================================================================

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List and manage orchestrator sessions",
	RunE:  runSessionsList,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	RunE:  runSessionsList,
}

var sessionsHistoryCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Print a session transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsHistory,
}

var sessionsCloneCmd = &cobra.Command{
	Use:   "clone <session-id>",
	Short: "Fork a session into a new one",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsClone,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsHistoryCmd)
	sessionsCmd.AddCommand(sessionsCloneCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	sessions, err := client.Sessions(cmd.Context())
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	fmt.Println("Sessions")
	fmt.Println(strings.Repeat("-", 50))
	for i, s := range sessions {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("  %d. %s  %s\n", i+1, s.ID, title)
	}
	fmt.Printf("Total: %d\n", len(sessions))
	return nil
}

func runSessionsHistory(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	msgs, err := client.SessionHistory(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	for _, m := range msgs {
		fmt.Printf("[%s] %s\n", m.Role, m.Content)
	}
	return nil
}

func runSessionsClone(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	id, err := client.CloneSession(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("clone session: %w", err)
	}
	fmt.Printf("Cloned %s -> %s\n", args[0], id)
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if err := client.DeleteSession(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

// One-shot query subcommand.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"genesisctl/internal/api"
)

var (
	queryModel    string
	queryProvider string
	querySession  string
	querySwarm    bool
	queryRepo     string
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Ask the orchestrator a single question",
	Long: `Sends one question through the RAG pipeline and prints the answer.

Example:
  genesisctl query "summarize the ingested architecture docs"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryModel, "model", "", "model to use (default from config)")
	queryCmd.Flags().StringVar(&queryProvider, "provider", "", "provider to use (default from config)")
	queryCmd.Flags().StringVar(&querySession, "session", "", "continue an existing session")
	queryCmd.Flags().BoolVar(&querySwarm, "swarm", false, "use the agent swarm instead of standard mode")
	queryCmd.Flags().StringVar(&queryRepo, "repo", "", "scope retrieval to one repository")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	model := cfg.Model
	if queryModel != "" {
		model = queryModel
	}
	provider := cfg.Provider
	if queryProvider != "" {
		provider = queryProvider
	}
	mode := "standard"
	if querySwarm {
		mode = "swarm"
	}

	resp, err := client.Query(cmd.Context(), api.QueryRequest{
		QueryText:   strings.Join(args, " "),
		Mode:        mode,
		SessionID:   querySession,
		Model:       model,
		Provider:    provider,
		RepoContext: api.CleanRepoName(queryRepo),
		RAGMode:     cfg.RAGMode,
	})
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	answer := resp.Answer
	if answer == "" {
		answer = "I processed that but have no specific answer."
	}
	fmt.Println(answer)

	if len(resp.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, s := range resp.Sources {
			fmt.Println("  -", s)
		}
	}
	if resp.SessionID != "" {
		fmt.Printf("\nSession: %s\n", resp.SessionID)
	}
	return nil
}

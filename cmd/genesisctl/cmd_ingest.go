// Ingestion subcommands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"genesisctl/internal/api"
)

var (
	ingestScope     string
	ingestSession   string
	ingestRAGMode   string
	ingestPDFOffset int
	ingestPDFOCR    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Feed repositories and documents into the knowledge base",
	RunE:  runIngestList,
}

var ingestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingestion jobs",
	RunE:  runIngestList,
}

var ingestRepoCmd = &cobra.Command{
	Use:   "repo <git-url>",
	Short: "Ingest a git repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngestRepo,
}

var ingestPDFCmd = &cobra.Command{
	Use:   "pdf <url>",
	Short: "Ingest a PDF document",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngestPDF,
}

var ingestFilesCmd = &cobra.Command{
	Use:   "files <repo> [path]",
	Short: "List files of an ingested repository",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runIngestFiles,
}

var ingestCatCmd = &cobra.Command{
	Use:   "cat <repo> <path>",
	Short: "Print a file from an ingested repository",
	Args:  cobra.ExactArgs(2),
	RunE:  runIngestCat,
}

func init() {
	ingestCmd.PersistentFlags().StringVar(&ingestScope, "scope", "session", "ingestion scope: global or session")
	ingestCmd.PersistentFlags().StringVar(&ingestSession, "session", "", "session id for session-scoped ingestion")
	ingestPDFCmd.Flags().StringVar(&ingestRAGMode, "rag-mode", "", "RAG mode for the document")
	ingestPDFCmd.Flags().IntVar(&ingestPDFOffset, "page-offset", 0, "logical page number of the first page")
	ingestPDFCmd.Flags().BoolVar(&ingestPDFOCR, "ocr", false, "run OCR on scanned pages")

	ingestCmd.AddCommand(ingestListCmd)
	ingestCmd.AddCommand(ingestRepoCmd)
	ingestCmd.AddCommand(ingestPDFCmd)
	ingestCmd.AddCommand(ingestFilesCmd)
	ingestCmd.AddCommand(ingestCatCmd)
}

func runIngestList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	jobs, err := client.IngestList(cmd.Context(), ingestSession)
	if err != nil {
		return fmt.Errorf("list ingestion jobs: %w", err)
	}
	if len(jobs) == 0 {
		fmt.Println("Nothing ingested yet.")
		return nil
	}
	for _, j := range jobs {
		line := fmt.Sprintf("  %-40s %s", api.CleanRepoName(j.Name), j.Status)
		if j.Error != "" {
			line += "  (" + j.Error + ")"
		}
		fmt.Println(line)
	}
	return nil
}

func runIngestRepo(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	req := api.IngestRepoRequest{URL: args[0], Scope: ingestScope, SessionID: ingestSession}
	if err := client.IngestRepo(cmd.Context(), req); err != nil {
		return fmt.Errorf("ingest repository: %w", err)
	}
	fmt.Println("Ingestion queued. Track progress with: genesisctl ingest list")
	return nil
}

func runIngestPDF(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	resp, err := client.IngestPDF(cmd.Context(), api.IngestPDFRequest{
		URL:        args[0],
		Scope:      ingestScope,
		SessionID:  ingestSession,
		RAGMode:    ingestRAGMode,
		PageOffset: ingestPDFOffset,
		EnableOCR:  ingestPDFOCR,
	})
	if err != nil {
		return fmt.Errorf("ingest document: %w", err)
	}
	fmt.Printf("Document queued (session %s)\n", resp.SessionID)
	if resp.FileURL != "" {
		fmt.Printf("Stored at: %s\n", resp.FileURL)
	}
	return nil
}

func runIngestFiles(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	path := ""
	if len(args) > 1 {
		path = args[1]
	}
	nodes, err := client.Files(cmd.Context(), args[0], path)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}
	for _, n := range nodes {
		name := n.Name
		if n.Type == "dir" {
			name += "/"
		}
		fmt.Println(" ", name)
	}
	return nil
}

func runIngestCat(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	content, err := client.FileContent(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	fmt.Print(content)
	return nil
}

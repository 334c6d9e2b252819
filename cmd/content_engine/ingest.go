package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-content-engine/api"
	"github.com/gcbaptista/go-content-engine/model"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest documents from a JSON file",
	Long: `Reads one document or an array of documents from a JSON file, enriches them with
keywords and a category, stores them and rebuilds the index. Documents that cannot
be processed are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the corpus index from the record store",
	Args:  cobra.NoArgs,
	RunE:  runRebuild,
}

var reprocessCmd = &cobra.Command{
	Use:   "reprocess",
	Short: "Re-enrich every stored document with the current settings",
	Args:  cobra.NoArgs,
	RunE:  runReprocess,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(reprocessCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0]) // #nosec G304 -- path comes from the operator's command line
	if err != nil {
		return fmt.Errorf("read documents: %w", err)
	}
	payloads, err := api.DecodeDocumentPayloads(data)
	if err != nil {
		return fmt.Errorf("decode documents: %w", err)
	}
	if result := api.ValidateDocuments(payloads); result.HasErrors() {
		for _, e := range result.Errors {
			cmd.PrintErrf("  %s: %s\n", e.Field, e.Message)
		}
		return errors.New("invalid document batch")
	}

	docs := make([]model.Document, len(payloads))
	for i, p := range payloads {
		docs[i] = p.ToDocument()
	}

	eng, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.Close()

	report, err := eng.Ingest(cmd.Context(), docs)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	return printReport(cmd, report)
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	eng, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.Close()

	stats, err := eng.Rebuild(cmd.Context())
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, stats)
	}
	cmd.Printf("Indexed %d documents (%d terms, %d skipped) in %s\n",
		stats.Documents, stats.Terms, stats.Skipped, stats.Duration)
	return nil
}

func runReprocess(cmd *cobra.Command, _ []string) error {
	eng, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.Close()

	report, err := eng.Reprocess(cmd.Context())
	if err != nil {
		return fmt.Errorf("reprocess failed: %w", err)
	}
	return printReport(cmd, report)
}

func printReport(cmd *cobra.Command, report model.BatchReport) error {
	if jsonOutput {
		return printJSON(cmd, report)
	}
	cmd.Printf("Processed %d of %d documents\n", report.Processed, report.Total)
	if report.Excluded > 0 {
		cmd.Printf("Excluded %d documents without searchable text\n", report.Excluded)
	}
	for _, s := range report.Skipped {
		cmd.Printf("  skipped %s: %s\n", s.DocumentID, s.Reason)
	}
	return nil
}

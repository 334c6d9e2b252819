package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-content-engine/model"
)

var (
	queryLimit    int
	exactKeywords bool
	signalsJSON   string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search documents by free text",
	Long: `Ranks stored documents by TF-IDF cosine similarity to the query, over the primary
text, context text and keywords of each document.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords [keyword...]",
	Short: "Search documents by keywords",
	Long: `Scores every document against the keywords: a hit on a derived keyword is worth
more than a hit in the text. With --exact, only whole tokens match.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKeywords,
}

var similarCmd = &cobra.Command{
	Use:   "similar [document-id]",
	Short: "Find documents related to a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilar,
}

var categoryCmd = &cobra.Command{
	Use:   "category [category]",
	Short: "List the documents of a category, highest confidence first",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategory,
}

var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Classify a text without storing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassify,
}

func init() {
	searchCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "maximum number of results (0 uses the configured default)")
	similarCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "maximum number of results (0 uses the configured default)")
	keywordsCmd.Flags().BoolVar(&exactKeywords, "exact", false, "match whole tokens only")
	classifyCmd.Flags().StringVar(&signalsJSON, "signals", "", `auxiliary signals as JSON, e.g. '{"has_faces": true}'`)

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(classifyCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	eng, err := openIndexedEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.Close()

	hits, err := eng.Search(args[0], queryLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, hits)
	}
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i, h := range hits {
		printDocumentLine(cmd, i+1, h.Document, h.Similarity)
	}
	return nil
}

func runKeywords(cmd *cobra.Command, args []string) error {
	eng, err := openIndexedEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.Close()

	hits, report, err := eng.KeywordSearch(args, exactKeywords)
	if err != nil {
		return fmt.Errorf("keyword search failed: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, hits)
	}
	if len(hits) == 0 {
		cmd.Println("No results found.")
	}
	for i, h := range hits {
		cmd.Printf("  [%d] %s (score %d) matched: %s\n", i+1, h.Document.ID, h.Score, strings.Join(h.MatchedKeywords, ", "))
	}
	for _, s := range report.Skipped {
		cmd.Printf("  skipped %s: %s\n", s.DocumentID, s.Reason)
	}
	return nil
}

func runSimilar(cmd *cobra.Command, args []string) error {
	eng, err := openIndexedEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.Close()

	hits, err := eng.FindSimilar(cmd.Context(), args[0], queryLimit)
	if err != nil {
		return fmt.Errorf("similar search failed: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, hits)
	}
	if len(hits) == 0 {
		cmd.Println("No related documents found.")
		return nil
	}
	for i, h := range hits {
		printDocumentLine(cmd, i+1, h.Document, h.Similarity)
	}
	return nil
}

func runCategory(cmd *cobra.Command, args []string) error {
	category, ok := model.LookupCategory(args[0])
	if !ok {
		return fmt.Errorf("unknown category '%s'", args[0])
	}

	eng, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.Close()

	hits, err := eng.SearchByCategory(cmd.Context(), category)
	if err != nil {
		return fmt.Errorf("category search failed: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd, hits)
	}
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i, h := range hits {
		printDocumentLine(cmd, i+1, h.Document, h.Confidence)
	}
	return nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	var signals *model.AuxiliarySignals
	if signalsJSON != "" {
		var raw map[string]any
		if err := json.Unmarshal([]byte(signalsJSON), &raw); err != nil {
			return fmt.Errorf("decode signals: %w", err)
		}
		parsed, err := model.ParseSignals(raw)
		if err != nil {
			return fmt.Errorf("invalid signals: %w", err)
		}
		signals = parsed
	}

	eng, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.Close()

	result := eng.Classify(args[0], signals)
	if jsonOutput {
		return printJSON(cmd, result)
	}
	cmd.Printf("%s (%.2f)\n", result.Category, result.Confidence)
	return nil
}

func printDocumentLine(cmd *cobra.Command, rank int, doc model.Document, score float64) {
	label := doc.FileName
	if label == "" {
		label = doc.ID
	}
	cmd.Printf("  [%d] %s [%s] (%.2f)\n", rank, label, doc.Category, score)
}

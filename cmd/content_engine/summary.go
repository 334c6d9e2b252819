package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-content-engine/model"
)

var (
	summaryDirectory string
	summaryRollups   bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarise the corpus, one directory or every directory",
	Long: `Without flags, aggregates the whole corpus. --directory restricts the summary to one
directory and --by-directory prints one row per directory.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryDirectory, "directory", "d", "", "summarise a single directory")
	summaryCmd.Flags().BoolVar(&summaryRollups, "by-directory", false, "print one row per directory")
	summaryCmd.MarkFlagsMutuallyExclusive("directory", "by-directory")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	eng, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx := cmd.Context()
	switch {
	case summaryRollups:
		rollups, err := eng.DirectoryRollups(ctx)
		if err != nil {
			return fmt.Errorf("directory rollups failed: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd, rollups)
		}
		for _, r := range rollups {
			cmd.Printf("%-30s %5d documents  avg %.0fs\n", r.Directory, r.Count, r.AvgDurationSeconds)
		}
		return nil

	case summaryDirectory != "":
		summary, err := eng.DirectorySummary(ctx, summaryDirectory)
		if err != nil {
			return fmt.Errorf("directory summary failed: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd, summary)
		}
		printSummary(cmd, summary)
		return nil

	default:
		global, err := eng.GlobalSummary(ctx)
		if err != nil {
			return fmt.Errorf("summary failed: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd, global)
		}
		printSummary(cmd, global.Summary)
		cmd.Printf("Directories: %d\n", len(global.Directories))
		for _, lang := range sortedKeys(global.Languages) {
			cmd.Printf("  language %s: %d\n", lang, global.Languages[lang])
		}
		return nil
	}
}

func printSummary(cmd *cobra.Command, s model.Summary) {
	if s.Directory != "" {
		cmd.Printf("Directory: %s\n", s.Directory)
	}
	cmd.Printf("Documents: %d\n", s.DocumentCount)
	cmd.Printf("Duration: %.2f hours\n", s.TotalDurationHours)
	categories := make([]string, 0, len(s.Categories))
	for c := range s.Categories {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)
	for _, c := range categories {
		cmd.Printf("  %s: %d\n", c, s.Categories[model.Category(c)])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

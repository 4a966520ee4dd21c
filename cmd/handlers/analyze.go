package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"drafty/internal/logger"
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [handle]",
		Short: "Analyze an account's posting style",
		Long: `Run a style analysis over the account's scraped posts and persist the
result on its profile. Posts are scraped first if none are stored yet.

Example:
  drafty analyze jane`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			handle := strings.TrimPrefix(args[0], "@")
			if err := runAnalyze(cmd.Context(), handle); err != nil {
				logger.Error("Analysis failed", err, "handle", handle)
				fmt.Fprintf(os.Stderr, "could not analyze @%s: %v\n", handle, err)
				os.Exit(1)
			}
		},
	}
}

func runAnalyze(ctx context.Context, handle string) error {
	profileStore, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = profileStore.Close() }()

	generator, err := newGenerator(profileStore)
	if err != nil {
		return err
	}

	analysis, err := generator.Analyze(ctx, handle)
	if err != nil {
		return err
	}

	fmt.Printf("Style analysis for @%s\n\n", handle)
	fmt.Printf("Summary: %s\n", analysis.Summary)
	fmt.Printf("Tone: %s\n", analysis.Tone)
	fmt.Printf("Key themes: %s\n", strings.Join(analysis.KeyThemes, "; "))
	if len(analysis.EngagementPatterns) > 0 {
		fmt.Printf("Engagement patterns: %s\n", strings.Join(analysis.EngagementPatterns, "; "))
	}
	if len(analysis.UntappedOpportunities) > 0 {
		fmt.Printf("Untapped opportunities: %s\n", strings.Join(analysis.UntappedOpportunities, "; "))
	}
	return nil
}

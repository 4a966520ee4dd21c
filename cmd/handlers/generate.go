package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"drafty/internal/config"
	"drafty/internal/logger"
	"drafty/internal/tui"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [handle]",
		Short: "Generate new drafts in the account's voice",
		Long: `Generate post drafts matching the account's analyzed style. The account
must have been analyzed first.

Example:
  drafty generate jane --count 5
  drafty generate jane --interactive`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			handle := strings.TrimPrefix(args[0], "@")
			count, _ := cmd.Flags().GetInt("count")
			interactive, _ := cmd.Flags().GetBool("interactive")
			if !cmd.Flags().Changed("interactive") {
				interactive = config.Get().CLI.Interactive
			}
			if count == 0 {
				count = config.Get().Generation.DefaultCount
			}

			if err := runGenerate(cmd.Context(), handle, count, interactive); err != nil {
				logger.Error("Generation failed", err, "handle", handle)
				fmt.Fprintf(os.Stderr, "could not generate drafts for @%s: %v\n", handle, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().IntP("count", "n", 0, "number of drafts to generate")
	cmd.Flags().BoolP("interactive", "i", false, "review drafts in the TUI")
	return cmd
}

func runGenerate(ctx context.Context, handle string, count int, interactive bool) error {
	profileStore, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = profileStore.Close() }()

	generator, err := newGenerator(profileStore)
	if err != nil {
		return err
	}

	drafts, err := generator.GenerateFromProfile(ctx, handle, count)
	if err != nil {
		return err
	}

	if interactive {
		return tui.ReviewDrafts(drafts)
	}

	fmt.Printf("Generated %d drafts for @%s\n\n", len(drafts), handle)
	printDrafts(drafts)
	return nil
}

package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"drafty/internal/logger"
)

// NewTweakCmd creates the tweak command
func NewTweakCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tweak [draft text] --feedback [feedback]",
		Short: "Rework a draft based on feedback",
		Long: `Produce three variants of an existing draft that incorporate the
given feedback while preserving the core message.

Example:
  drafty tweak "shipping the new parser today" --feedback "make it punchier" --handle jane`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			original := strings.Join(args, " ")
			feedback, _ := cmd.Flags().GetString("feedback")
			handle, _ := cmd.Flags().GetString("handle")
			handle = strings.TrimPrefix(handle, "@")

			if feedback == "" {
				fmt.Fprintln(os.Stderr, "tweak requires --feedback")
				os.Exit(1)
			}

			if err := runTweak(cmd.Context(), original, feedback, handle); err != nil {
				logger.Error("Tweak failed", err)
				fmt.Fprintf(os.Stderr, "could not tweak draft: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringP("feedback", "f", "", "what to change about the draft")
	cmd.Flags().String("handle", "", "account whose voice to preserve")
	return cmd
}

func runTweak(ctx context.Context, original, feedback, handle string) error {
	profileStore, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = profileStore.Close() }()

	generator, err := newGenerator(profileStore)
	if err != nil {
		return err
	}

	drafts, err := generator.Tweak(ctx, original, feedback, handle)
	if err != nil {
		return err
	}

	fmt.Printf("Variants for %q\n\n", original)
	printDrafts(drafts)
	return nil
}

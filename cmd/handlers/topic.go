package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"drafty/internal/config"
	"drafty/internal/logger"
)

// NewTopicCmd creates the topic command
func NewTopicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic [topic text]",
		Short: "Generate drafts about a topic",
		Long: `Generate post drafts about a given topic. With --handle, drafts are
written in that account's analyzed voice; without one, a generic
authentic voice is used.

Example:
  drafty topic "release day retrospectives" --handle jane
  drafty topic "fall conference season" -n 3`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			topic := strings.Join(args, " ")
			handle, _ := cmd.Flags().GetString("handle")
			handle = strings.TrimPrefix(handle, "@")
			count, _ := cmd.Flags().GetInt("count")
			if count == 0 {
				count = config.Get().Generation.DefaultCount
			}

			if err := runTopic(cmd.Context(), topic, handle, count); err != nil {
				logger.Error("Topic generation failed", err, "topic", topic)
				fmt.Fprintf(os.Stderr, "could not generate drafts: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().String("handle", "", "account whose voice to write in")
	cmd.Flags().IntP("count", "n", 0, "number of drafts to generate")
	return cmd
}

func runTopic(ctx context.Context, topic, handle string, count int) error {
	profileStore, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = profileStore.Close() }()

	generator, err := newGenerator(profileStore)
	if err != nil {
		return err
	}

	drafts, err := generator.GenerateFromTopic(ctx, topic, count, handle)
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d drafts on %q\n\n", len(drafts), topic)
	printDrafts(drafts)
	return nil
}

package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"drafty/internal/config"
	"drafty/internal/logger"
)

// NewScrapeCmd creates the scrape command
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [handle]",
		Short: "Fetch and store an account's recent posts",
		Long: `Fetch the account's recent timeline and store the posts locally.
Stored posts feed the analyze and generate commands.

Example:
  drafty scrape jane --limit 50`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			handle := strings.TrimPrefix(args[0], "@")
			limit, _ := cmd.Flags().GetInt("limit")
			if limit == 0 {
				limit = config.Get().Scrape.MaxPosts
			}

			if err := runScrape(cmd.Context(), handle, limit); err != nil {
				logger.Error("Scrape failed", err, "handle", handle)
				fmt.Fprintf(os.Stderr, "could not scrape @%s: %v\n", handle, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().IntP("limit", "l", 0, "maximum number of posts to fetch")
	return cmd
}

func runScrape(ctx context.Context, handle string, limit int) error {
	profileStore, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = profileStore.Close() }()

	scraper := newScraper()
	posts, err := scraper.FetchPosts(ctx, handle, limit)
	if err != nil {
		return fmt.Errorf("failed to fetch posts: %w", err)
	}
	if len(posts) == 0 {
		return fmt.Errorf("no posts found for @%s", handle)
	}

	profile, err := profileStore.GetProfile(handle)
	if err != nil {
		return err
	}
	profile.Posts = posts
	profile.UpdatedAt = time.Now()
	if err := profileStore.PutProfile(profile); err != nil {
		return err
	}

	fmt.Printf("Stored %d posts for @%s\n", len(posts), handle)
	return nil
}

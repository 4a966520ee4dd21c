package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"drafty/internal/core"
	"drafty/internal/logger"
	"drafty/internal/store"
)

// NewAccountsCmd creates the accounts command group
func NewAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage stored account profiles",
		Long: `List, inspect, and edit the stored account profiles: custom
instructions and the communities drafts can be tagged with.`,
	}

	cmd.AddCommand(newAccountsListCmd())
	cmd.AddCommand(newAccountsShowCmd())
	cmd.AddCommand(newAccountsRemoveCmd())
	cmd.AddCommand(newAccountsSetInstructionsCmd())
	cmd.AddCommand(newAccountsAddCommunityCmd())
	cmd.AddCommand(newAccountsRemoveCommunityCmd())
	return cmd
}

func newAccountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored accounts",
		Run: func(cmd *cobra.Command, args []string) {
			exitOnError(withStore(func(profileStore *store.Store) error {
				handles, err := profileStore.ListHandles()
				if err != nil {
					return err
				}
				if len(handles) == 0 {
					fmt.Println("No accounts stored yet. Run 'drafty scrape <handle>' first.")
					return nil
				}
				for _, handle := range handles {
					profile, err := profileStore.GetProfile(handle)
					if err != nil {
						return err
					}
					analyzed := "not analyzed"
					if profile.HasAnalysis() {
						analyzed = "analyzed " + profile.Analysis.DateGenerated.Format("2006-01-02")
					}
					fmt.Printf("@%s  %d posts  %s\n", handle, len(profile.Posts), analyzed)
				}
				return nil
			}))
		},
	}
}

func newAccountsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [handle]",
		Short: "Show a stored account profile",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			handle := strings.TrimPrefix(args[0], "@")
			exitOnError(withStore(func(profileStore *store.Store) error {
				profile, err := profileStore.GetProfile(handle)
				if err != nil {
					return err
				}
				printProfile(profile)
				return nil
			}))
		},
	}
}

func newAccountsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [handle]",
		Short: "Remove a stored account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			handle := strings.TrimPrefix(args[0], "@")
			exitOnError(withStore(func(profileStore *store.Store) error {
				if err := profileStore.DeleteProfile(handle); err != nil {
					return err
				}
				fmt.Printf("Removed @%s\n", handle)
				return nil
			}))
		},
	}
}

func newAccountsSetInstructionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-instructions [handle] [instructions]",
		Short: "Set custom instructions for an account",
		Long: `Set free-form instructions that take priority over the analyzed style
when generating drafts. Pass an empty string to clear them.`,
		Args: cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			handle := strings.TrimPrefix(args[0], "@")
			instructions := strings.Join(args[1:], " ")
			exitOnError(withStore(func(profileStore *store.Store) error {
				profile, err := profileStore.GetProfile(handle)
				if err != nil {
					return err
				}
				profile.CustomInstructions = instructions
				if err := profileStore.PutProfile(profile); err != nil {
					return err
				}
				fmt.Printf("Updated instructions for @%s\n", handle)
				return nil
			}))
		},
	}
}

func newAccountsAddCommunityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-community [handle] [name]",
		Short: "Add a community an account posts into",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			handle := strings.TrimPrefix(args[0], "@")
			name := args[1]
			description, _ := cmd.Flags().GetString("description")
			exitOnError(withStore(func(profileStore *store.Store) error {
				profile, err := profileStore.GetProfile(handle)
				if err != nil {
					return err
				}
				if _, exists := profile.Community(name); exists {
					return fmt.Errorf("community %q already exists for @%s", name, handle)
				}
				profile.Communities = append(profile.Communities, core.Community{
					Name:        name,
					Description: description,
				})
				if err := profileStore.PutProfile(profile); err != nil {
					return err
				}
				fmt.Printf("Added community %q to @%s\n", name, handle)
				return nil
			}))
		},
	}
	cmd.Flags().StringP("description", "d", "", "what the community is about")
	return cmd
}

func newAccountsRemoveCommunityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-community [handle] [name]",
		Short: "Remove a community from an account",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			handle := strings.TrimPrefix(args[0], "@")
			name := args[1]
			exitOnError(withStore(func(profileStore *store.Store) error {
				profile, err := profileStore.GetProfile(handle)
				if err != nil {
					return err
				}
				kept := profile.Communities[:0]
				removed := false
				for _, community := range profile.Communities {
					if community.Name == name {
						removed = true
						continue
					}
					kept = append(kept, community)
				}
				if !removed {
					return fmt.Errorf("no community %q on @%s", name, handle)
				}
				profile.Communities = kept
				if err := profileStore.PutProfile(profile); err != nil {
					return err
				}
				fmt.Printf("Removed community %q from @%s\n", name, handle)
				return nil
			}))
		},
	}
}

// withStore opens the store, runs fn, and returns its error. The store is
// closed before the caller decides to exit.
func withStore(fn func(*store.Store) error) error {
	profileStore, err := openStore()
	if err != nil {
		return fmt.Errorf("could not open store: %w", err)
	}
	defer func() { _ = profileStore.Close() }()

	return fn(profileStore)
}

// exitOnError reports a failed accounts command and exits non-zero. Called
// only after withStore has returned, so the store is already released.
func exitOnError(err error) {
	if err == nil {
		return
	}
	logger.Error("Accounts command failed", err)
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}

func printProfile(profile *core.AccountProfile) {
	fmt.Printf("@%s\n", profile.Handle)
	fmt.Printf("Posts stored: %d\n", len(profile.Posts))
	if !profile.UpdatedAt.IsZero() {
		fmt.Printf("Updated: %s\n", profile.UpdatedAt.Format("2006-01-02 15:04"))
	}
	if profile.CustomInstructions != "" {
		fmt.Printf("Instructions: %s\n", profile.CustomInstructions)
	}
	if len(profile.Communities) > 0 {
		fmt.Println("Communities:")
		for _, community := range profile.Communities {
			if community.Description != "" {
				fmt.Printf("  - %s: %s\n", community.Name, community.Description)
			} else {
				fmt.Printf("  - %s\n", community.Name)
			}
		}
	}
	if profile.HasAnalysis() {
		fmt.Printf("\nStyle summary: %s\n", profile.Analysis.Summary)
		fmt.Printf("Tone: %s\n", profile.Analysis.Tone)
		if len(profile.Analysis.KeyThemes) > 0 {
			fmt.Printf("Themes: %s\n", strings.Join(profile.Analysis.KeyThemes, ", "))
		}
	} else {
		fmt.Println("\nNot analyzed yet. Run 'drafty analyze' to build a style profile.")
	}
}

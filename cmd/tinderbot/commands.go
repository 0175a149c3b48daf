package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"tinderbot/pkg/bot"
	"tinderbot/pkg/errors"
	"tinderbot/pkg/ui"
)

var likeAllFetch bool

// recsCmd represents the recs command
var recsCmd = &cobra.Command{
	Use:   "recs",
	Short: "Fetch recommendations into the local store",
	Long: `Fetch the current recommendations and store every profile with its photos.

Profiles already in the store are only rewritten when the server reports a
newer ping time.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithBot(cmd, func(ctx context.Context, b *bot.Bot) error {
			summary, err := b.RequestRecommendations(ctx)
			if errors.IsRateLimited(err) {
				reportSummary(summary)
				return nil
			}
			if err != nil {
				return err
			}
			reportSummary(summary)
			return nil
		})
	},
}

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh every stored profile and all matches",
	Long: `Fetch the current version of every profile in the store, then store every
match and link its primary photo under matches/.

Profiles that can no longer be fetched are skipped.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithBot(cmd, func(ctx context.Context, b *bot.Bot) error {
			summary, err := b.UpdateStore(ctx)
			if err != nil {
				return err
			}
			reportSummary(summary)
			if summary.Cancelled {
				return nil
			}

			summary, err = b.UpdateMatches(ctx)
			if err != nil {
				return err
			}
			reportSummary(summary)
			return nil
		})
	},
}

// matchesCmd represents the matches command
var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Store and list current matches",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithBot(cmd, func(ctx context.Context, b *bot.Bot) error {
			summary, err := b.UpdateMatches(ctx)
			if err != nil {
				return err
			}
			reportSummary(summary)

			matches := b.Matches()
			if len(matches) == 0 {
				ui.PrintInfo("Matches", "none yet")
				return nil
			}
			renderMatches(os.Stdout, matches)
			if blocks := b.Blocks(); len(blocks) > 0 {
				ui.PrintInfo("Blocked by", fmt.Sprintf("%d people", len(blocks)))
			}
			return nil
		})
	},
}

// likeCmd represents the like command
var likeCmd = &cobra.Command{
	Use:   "like <profile-id>",
	Short: "Like one stored profile",
	Long: `Like a profile from the local store. Ids that are not in the store are
ignored without contacting the API; run 'tinderbot recs' first.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithBot(cmd, func(ctx context.Context, b *bot.Bot) error {
			id := args[0]
			res, err := b.Like(ctx, id)
			if err != nil {
				return err
			}
			if !res.Liked {
				ui.PrintWarning("Profile not in the local store", id)
				return nil
			}

			p, _ := b.Store().Profile(id)
			if res.Match {
				ui.PrintHighlight("It's a match with " + p.Name + "!")
			} else {
				ui.PrintSuccess("Liked " + p.Name)
			}
			ui.PrintInfo("Likes remaining", fmt.Sprintf("%d", res.LikesRemaining))
			return nil
		})
	},
}

// likeAllCmd represents the like-all command
var likeAllCmd = &cobra.Command{
	Use:   "like-all",
	Short: "Like every stored profile not liked yet",
	Long: `Like every profile in the local store that has not been liked yet. Stops
as soon as the like quota runs out.`,
	Example: `  # Like everything already stored
  tinderbot like-all

  # Fetch fresh recommendations first
  tinderbot like-all --fetch`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithBot(cmd, func(ctx context.Context, b *bot.Bot) error {
			if likeAllFetch {
				summary, err := b.RequestRecommendations(ctx)
				if errors.IsRateLimited(err) {
					reportSummary(summary)
					return nil
				}
				if err != nil {
					return err
				}
				reportSummary(summary)
				if summary.Cancelled {
					return nil
				}
			}

			summary, err := b.MassiveLike(ctx)
			if err != nil {
				return err
			}
			reportSummary(summary)

			matched := b.MatchedPeople()
			if len(matched) > 0 {
				ui.PrintHighlight(fmt.Sprintf("New matches: %d", len(matched)))
				renderPeople(os.Stdout, matched)
			}
			if remaining := b.LikesRemaining(); remaining >= 0 {
				ui.PrintInfo("Likes remaining", fmt.Sprintf("%d", remaining))
			}
			return nil
		})
	},
}

// sayHiCmd represents the say-hi command
var sayHiCmd = &cobra.Command{
	Use:   "say-hi",
	Short: "Greet every match that has no messages yet",
	Long: `Send the configured greeting (bot.hi_message) to every match without
messages. {name} in the greeting is replaced with the match's name.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithBot(cmd, func(ctx context.Context, b *bot.Bot) error {
			summary, err := b.BroadcastHi(ctx)
			if err != nil {
				return err
			}
			reportSummary(summary)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(recsCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(likeAllCmd)
	rootCmd.AddCommand(sayHiCmd)

	likeAllCmd.Flags().BoolVar(&likeAllFetch, "fetch", false, "fetch recommendations before liking")
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dogfinder/dogfinder/commands"
	"github.com/dogfinder/dogfinder/render"
	"github.com/dogfinder/dogfinder/types"
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the breed at the current position",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respondPosition(commands.CurrentCommand(cmd.Context()))
	},
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Move to the next breed without voting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respondPosition(commands.NextCommand(cmd.Context()))
	},
}

var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Move back to the previous breed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respondPosition(commands.PreviousCommand(cmd.Context()))
	},
}

var voteCmd = &cobra.Command{
	Use:   "vote [like|dislike|superlike]",
	Short: "Vote on the current breed and advance",
	Long:  `Stores the vote locally, submits it to the vote service and moves to the next breed. A failed submission keeps the local vote.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.VoteCommand(cmd.Context(), commands.VoteRequest{Value: args[0]}))
	},
}

var votesCmd = &cobra.Command{
	Use:   "votes",
	Short: "List the votes cast so far",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.ListVotesCommand(cmd.Context(), commands.VotesRequest{Remote: remoteVotes}))
	},
}

// respondPosition prints a position as json, or as a card with --pretty.
func respondPosition(response *commands.CommandResponse) error {
	if !pretty || response.Status == "error" {
		return respond(response)
	}

	pos, ok := response.Data.(commands.Position)
	if !ok {
		return respond(response)
	}
	fmt.Println(renderPosition(pos))
	return nil
}

func renderPosition(pos commands.Position) string {
	if pos.Done || pos.Breed == nil {
		return render.Empty()
	}

	view := render.CardView{
		Breed: *pos.Breed,
		Index: pos.Index,
		Total: pos.Total,
	}
	if pos.Vote != "" {
		if v, err := types.ParseVoteValue(pos.Vote); err == nil {
			view.Vote = &v
		}
	}
	return render.Card(view)
}

func init() {
	rootCmd.AddCommand(currentCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(voteCmd)
	rootCmd.AddCommand(votesCmd)

	for _, cmd := range []*cobra.Command{currentCmd, nextCmd, prevCmd} {
		cmd.Flags().BoolVar(&pretty, "pretty", false, "render the card instead of json")
	}
	votesCmd.Flags().BoolVar(&remoteVotes, "remote", false, "list votes recorded by the vote service")
}

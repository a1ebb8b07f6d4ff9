package cli

import (
	"github.com/spf13/cobra"

	"github.com/dogfinder/dogfinder/commands"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Progress management commands",
	Long:  `Commands for inspecting and clearing the saved position, votes and user id.`,
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.StateCommand(cmd.Context()))
	},
}

var stateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the saved progress",
	Long:  `Clears the position, the local votes and the user id. A new user id is generated on next use.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.ClearStateCommand(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)

	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateClearCmd)
}

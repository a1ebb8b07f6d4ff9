package cli

import (
	"github.com/spf13/cobra"

	"github.com/dogfinder/dogfinder/commands"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "API key management",
	Long:  `Commands for storing the breed catalog API key in the OS keyring.`,
}

var authSetKeyCmd = &cobra.Command{
	Use:         "set-key [key]",
	Short:       "Store the API key in the OS keyring",
	Args:        cobra.ExactArgs(1),
	Annotations: skipApp(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.SetAPIKeyCommand(args[0]))
	},
}

var authKeyCmd = &cobra.Command{
	Use:         "key",
	Short:       "Show the stored API key",
	Long:        `Shows the API key stored in the OS keyring, masked unless --reveal is given.`,
	Args:        cobra.NoArgs,
	Annotations: skipApp(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.APIKeyCommand(revealKey))
	},
}

var authRemoveKeyCmd = &cobra.Command{
	Use:         "remove-key",
	Short:       "Delete the API key from the OS keyring",
	Args:        cobra.NoArgs,
	Annotations: skipApp(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.RemoveAPIKeyCommand())
	},
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.AddCommand(authSetKeyCmd)
	authCmd.AddCommand(authKeyCmd)
	authCmd.AddCommand(authRemoveKeyCmd)

	authKeyCmd.Flags().BoolVar(&revealKey, "reveal", false, "print the key unmasked")
}

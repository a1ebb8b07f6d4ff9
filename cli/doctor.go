package cli

import (
	"github.com/spf13/cobra"

	"github.com/dogfinder/dogfinder/commands"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run system diagnostics",
	Long:  `Checks the configuration, the progress store and the breed catalog for better troubleshooting`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.DoctorCommand(cmd.Context(), GetVersion()))
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

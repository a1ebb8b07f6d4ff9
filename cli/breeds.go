package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dogfinder/dogfinder/commands"
	"github.com/dogfinder/dogfinder/render"
)

var breedsCmd = &cobra.Command{
	Use:   "breeds",
	Short: "Breed catalog commands",
	Long:  `Commands for listing breeds and showing their details.`,
}

var breedsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every breed in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.ListBreedsCommand(cmd.Context()))
	},
}

var breedsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show the details of one breed",
	Long:  `Fetches a breed by id. With --pretty the details page is rendered as markdown.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return respond(commands.NewErrorResponse(fmt.Errorf("invalid breed id '%s', expected an integer", args[0])))
		}

		if !pretty {
			return respond(commands.GetBreedCommand(cmd.Context(), commands.BreedRequest{ID: id}))
		}

		breed, err := commands.GetBreed(cmd.Context(), id)
		if err != nil {
			return err
		}
		r, err := render.NewRenderer(render.DefaultCardWidth * 2)
		if err != nil {
			return err
		}
		fmt.Print(r.Details(*breed))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(breedsCmd)

	breedsCmd.AddCommand(breedsListCmd)
	breedsCmd.AddCommand(breedsGetCmd)

	breedsGetCmd.Flags().BoolVar(&pretty, "pretty", false, "render the details page instead of json")
}

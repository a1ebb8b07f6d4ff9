package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dogfinder/dogfinder/commands"
	"github.com/dogfinder/dogfinder/navigation"
	"github.com/dogfinder/dogfinder/render"
	"github.com/dogfinder/dogfinder/tui"
	"github.com/dogfinder/dogfinder/types"
	"github.com/dogfinder/dogfinder/utils"
)

const logFileName = "dogfinder.log"

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Swipe through breeds interactively",
	Long: `Opens the full-screen card browser. Drag a card with the mouse or use the
arrow keys: left for nope, right for like, up for super like. Click a card or
press enter for details.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := commands.GetApp()

		th, err := commands.ResolveThreshold(threshold)
		if err != nil {
			return err
		}

		r, err := render.NewRenderer(render.DefaultCardWidth + 8)
		if err != nil {
			return err
		}

		// the terminal belongs to the UI until it exits
		if closeLog, err := redirectLogs(); err != nil {
			utils.Warn("failed to open log file, logging to stderr: %v", err)
		} else {
			defer closeLog()
		}

		return tui.Run(cmd.Context(), tui.Options{
			Load: func(ctx context.Context) (*navigation.Navigator, error) {
				return app.Navigator(ctx)
			},
			Breed: func(ctx context.Context, id int) (types.Breed, error) {
				b, err := commands.GetBreed(ctx, id)
				if err != nil {
					return types.Breed{}, err
				}
				return *b, nil
			},
			Reload:    app.ResetNavigator,
			Threshold: th,
			Renderer:  r,
		})
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().Float64Var(&threshold, "threshold", 0, "swipe threshold in pixels (default from config)")
}

// redirectLogs sends log output to <data dir>/dogfinder.log.
func redirectLogs() (func(), error) {
	dir, err := utils.DataDir()
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	utils.SetOutput(f)

	return func() {
		utils.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

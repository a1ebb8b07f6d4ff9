package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dogfinder/dogfinder/commands"
	"github.com/dogfinder/dogfinder/config"
	"github.com/dogfinder/dogfinder/server"
	"github.com/dogfinder/dogfinder/utils"
)

const version = "dev"

// skipAppAnnotation marks commands that run without the store and catalog.
const skipAppAnnotation = "dogfinder/skip-app"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dogfinder",
	Short: "Swipe through dog breeds from your terminal",
	Long:  `Browse dog breeds one card at a time and vote on them with swipes, keys or commands.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupApp,
}

// GetVersion returns the build version
func GetVersion() string {
	return version
}

func initConfig() {
	utils.SetVerbose(verbose)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep progress in memory only")

	server.Version = version
}

// setupApp loads the configuration and opens the store and catalog client
// shared by all commands.
func setupApp(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipAppAnnotation] == "true" {
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		utils.Verbose("Loaded config from %s", cfg.Path)
	}

	app, err := commands.NewApp(cmd.Context(), cfg, commands.AppOptions{Ephemeral: ephemeral})
	if err != nil {
		return err
	}
	commands.SetApp(app)
	return nil
}

func skipApp() map[string]string {
	return map[string]string{skipAppAnnotation: "true"}
}

// Execute runs the root command and releases the app afterwards
func Execute(ctx context.Context) error {
	// enable microseconds in logs
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	err := rootCmd.ExecuteContext(ctx)

	if app := commands.GetApp(); app != nil {
		if closeErr := app.Close(); closeErr != nil {
			utils.Warn("failed to close store: %v", closeErr)
		}
		commands.SetApp(nil)
	}
	return err
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(jsonData))
}

// respond prints a command response and turns an error status into an error
func respond(response *commands.CommandResponse) error {
	printJson(response)
	if response.Status == "error" {
		return fmt.Errorf("%s", response.Error)
	}
	return nil
}

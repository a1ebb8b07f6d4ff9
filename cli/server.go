package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dogfinder/dogfinder/commands"
	"github.com/dogfinder/dogfinder/config"
	"github.com/dogfinder/dogfinder/daemon"
	"github.com/dogfinder/dogfinder/server"
	"github.com/dogfinder/dogfinder/utils"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the dogfinder JSON-RPC server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the dogfinder server",
	Long:  `Starts the JSON-RPC server. HTTP clients post to /rpc, live gestures stream over /ws and metrics are served on /metrics.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := commands.GetApp().Config

		listenAddr := cmd.Flag("listen").Value.String()
		if listenAddr == "" {
			listenAddr = cfg.Server.Listen
		}

		// GetBool/GetString cannot fail for defined flags
		enableCORS, _ := cmd.Flags().GetBool("cors")
		if !cmd.Flags().Changed("cors") {
			enableCORS = cfg.Server.CORS
		}
		isDaemon, _ := cmd.Flags().GetBool("daemon")

		addr, err := utils.NormalizeListenAddr(listenAddr)
		if err != nil {
			return err
		}
		if !utils.IsListenAddrAvailable(addr) {
			return fmt.Errorf("address %s is already in use", addr)
		}

		if isDaemon && !daemon.IsChild() {
			_, err := daemon.Daemonize()
			if err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			fmt.Printf("Server daemon spawned, attempting to listen on %s\n", listenAddr)
			return nil
		}

		return server.StartServer(cmd.Context(), listenAddr, enableCORS)
	},
}

var serverKillCmd = &cobra.Command{
	Use:         "kill",
	Short:       "Stop the daemonized dogfinder server",
	Long:        `Connects to the server and sends a shutdown command via JSON-RPC.`,
	Args:        cobra.NoArgs,
	Annotations: skipApp(),
	RunE: func(cmd *cobra.Command, args []string) error {
		// GetString cannot fail for defined flags
		addr, _ := cmd.Flags().GetString("listen")
		if addr == "" {
			addr = config.DefaultListen
		}

		err := daemon.KillServer(addr)
		if err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)

	// server start flags
	serverStartCmd.Flags().String("listen", "", "Address to listen on (e.g., 'localhost:12000' or '0.0.0.0:13000')")
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")

	// server kill flags
	serverKillCmd.Flags().String("listen", "", fmt.Sprintf("Address of server to kill (default: %s)", config.DefaultListen))
}

package app

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ashishtz/carbon-bear-xrpl/log"
	"github.com/ashishtz/carbon-bear-xrpl/node"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web application with config",
	Long: `Serve the Carbon Bear web pages and the gRPC health service with the
specified configuration. Flags and CARBONBEAR_ environment variables
override the config file.`,
	Run: func(cmd *cobra.Command, args []string) {
		c, err := loadConfig(cmd, "addr", "health-addr", "db-backend", "db-path")
		if err != nil {
			log.Fatal(err)
		}
		n, err := node.NewNode(c)
		if err != nil {
			log.Fatalf("create node failed: %v", err)
		}
		if err := n.Start(); err != nil {
			log.Fatalf("start node failed: %v", err)
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		s := <-sig
		log.Infow("shutting down", "signal", s.String())
		n.Stop()
		log.Sync()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address of the web server.")
	serveCmd.Flags().String("health-addr", "", "Listen address of the gRPC health server.")
	serveCmd.Flags().String("db-backend", "", "Database backend: boltdb, badger or memdb.")
	serveCmd.Flags().String("db-path", "", "Database file path.")
	rootCmd.AddCommand(serveCmd)
}

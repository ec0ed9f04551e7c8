package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ashishtz/carbon-bear-xrpl/log"
	"github.com/ashishtz/carbon-bear-xrpl/node"
)

var (
	cfgFile string
	logFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "carbonbear",
	Short: "Carbon Bear token marketplace on the XRP Ledger",
	Long: `Carbon Bear lets users claim BEAR carbon tokens for their green
purchases and trade them against XRP on the ledger order book.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Initialize(logFile)
		if debug {
			log.OpenDebug()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path of the config file.")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "Also write logs to this file.")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging.")
}

// newViper reads the config file, if any, with environment overrides
// prefixed by CARBONBEAR_.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	node.SetDefaults(v)
	v.SetEnvPrefix("CARBONBEAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s failed: %v", cfgFile, err)
		}
	}
	return v, nil
}

// loadConfig builds the node config with the command flags bound
// to their keys.
func loadConfig(cmd *cobra.Command, flags ...string) (*node.Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	for _, name := range flags {
		key := strings.ReplaceAll(name, "-", "_")
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind flag %s failed: %v", name, err)
		}
	}
	return node.NewConfig(v)
}

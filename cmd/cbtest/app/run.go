package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ashishtz/carbon-bear-xrpl/log"
	"github.com/ashishtz/carbon-bear-xrpl/node"
	"github.com/ashishtz/carbon-bear-xrpl/test"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cbtest",
	Short: "End to end test runner of Carbon Bear",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the series of test cases.",
	Run: func(cmd *cobra.Command, args []string) {
		v := viper.New()
		node.SetDefaults(v)
		v.SetEnvPrefix("CARBONBEAR")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		v.AutomaticEnv()
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		c, err := node.NewConfig(v)
		if err != nil {
			log.Fatal(err)
		}
		env, err := test.NewEnv(c)
		if err != nil {
			log.Fatalf("create test env failed: %v", err)
		}

		cases := test.GetAll()
		failed := 0
		for _, tc := range cases {
			log.Infow("run the test case", "desc", tc.Desc())
			ctx, cancel := context.WithTimeout(context.Background(), 5*c.SubmitTimeout)
			err := tc.Run(ctx, env)
			cancel()
			if err != nil {
				failed++
				log.Errorw("testcase failed", "desc", tc.Desc(), "err", err.Error())
			}
		}
		env.TM.Wait()
		log.Infof("finished all the %d testcases, %d failed", len(cases), failed)
		log.Sync()
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	runCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "Path of the config file.")
	runCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(runCmd)
	log.Initialize("cbtest.log")
}

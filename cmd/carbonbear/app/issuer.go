package app

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/ashishtz/carbon-bear-xrpl/client"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
	"github.com/ashishtz/carbon-bear-xrpl/db/memdb"
	"github.com/ashishtz/carbon-bear-xrpl/log"
	"github.com/ashishtz/carbon-bear-xrpl/tx"
	"github.com/ashishtz/carbon-bear-xrpl/tx/op"
)

var issuerCmd = &cobra.Command{
	Use:   "issuer",
	Short: "Manage the token issuer account",
}

var issuerSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Enable rippling on the issuer account",
	Long: `Enable the DefaultRipple flag on the issuer account so that the
token can move between holders through offers.`,
	Run: func(cmd *cobra.Command, args []string) {
		c, err := loadConfig(cmd)
		if err != nil {
			log.Fatal(err)
		}
		w, err := crypto.NewWallet(c.IssuerSeed)
		if err != nil {
			log.Fatalf("load issuer wallet failed: %v", err)
		}

		ledger := client.New(c.LedgerURL, 30*time.Second)
		tm, err := tx.NewManager(&tx.ManagerContext{
			Ledger:           ledger,
			Store:            memdb.New(),
			LastLedgerOffset: c.LastLedgerOffset,
			SubmitTimeout:    c.SubmitTimeout,
		})
		if err != nil {
			log.Fatal(err)
		}

		setup := &op.DefaultRipple{Issuer: w.Address()}
		t, err := setup.Build()
		if err != nil {
			log.Fatalf("build account set tx failed: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), c.SubmitTimeout)
		defer cancel()
		status, err := tm.SubmitAndWait(ctx, w, t)
		if err != nil {
			log.Fatalf("enable rippling failed: %v", err)
		}
		log.Infow("rippling enabled on issuer", "issuer", w.Address(), "hash", status.Hash)
	},
}

func init() {
	issuerCmd.AddCommand(issuerSetupCmd)
	rootCmd.AddCommand(issuerCmd)
}

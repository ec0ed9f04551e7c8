package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ashishtz/carbon-bear-xrpl/account"
	"github.com/ashishtz/carbon-bear-xrpl/client"
	"github.com/ashishtz/carbon-bear-xrpl/client/types"
	"github.com/ashishtz/carbon-bear-xrpl/crypto"
	"github.com/ashishtz/carbon-bear-xrpl/log"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage ledger accounts",
}

var genaccountCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random wallet for an account",
	Long: `Generate a random wallet for an account, the wallet contains the
seed and the account address derived from it. The account does not
exist on the ledger until it is funded.`,
	Run: func(cmd *cobra.Command, args []string) {
		kt := crypto.KeyTypeEd25519
		if secp, _ := cmd.Flags().GetBool("secp256k1"); secp {
			kt = crypto.KeyTypeSecp256k1
		}
		seed, err := crypto.GenerateSeed(kt)
		if err != nil {
			log.Fatalf("generate random seed failed: %v", err)
		}
		w, err := crypto.NewWallet(seed)
		if err != nil {
			log.Fatalf("derive wallet failed: %v", err)
		}
		fmt.Printf("Account: %s, PublicKey: %s, Seed: %s\n", w.Address(), w.PublicKey(), seed)
	},
}

var createAccountCmd = &cobra.Command{
	Use:   "create",
	Short: "Create and fund a test account with the faucet",
	Run: func(cmd *cobra.Command, args []string) {
		v, err := newViper()
		if err != nil {
			log.Fatal(err)
		}
		ledger := client.New(v.GetString("ledger_url"), 30*time.Second)
		faucet := client.NewFaucet(v.GetString("faucet_url"), ledger)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		cred, err := faucet.CreateAccount(ctx)
		if err != nil {
			log.Fatalf("create test account failed: %v", err)
		}
		fmt.Printf("Account: %s\nPublicKey: %s\nSeed: %s\nBalance: %s XRP\n",
			cred.Address, cred.PublicKey, cred.Seed, cred.Balance)
	},
}

var accountInfoCmd = &cobra.Command{
	Use:   "info <address>",
	Short: "Print the XRP and token balances of an account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		v, err := newViper()
		if err != nil {
			log.Fatal(err)
		}
		asset := types.Issue{
			Currency: types.CurrencyCode(v.GetString("token_currency")),
			Issuer:   v.GetString("issuer_account"),
		}
		ledger := client.New(v.GetString("ledger_url"), 30*time.Second)
		am, err := account.NewManager(ledger, asset, 1)
		if err != nil {
			log.Fatal(err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		b, err := am.Balances(ctx, args[0])
		if err != nil {
			log.Fatalf("get balances of %s failed: %v", args[0], err)
		}
		fmt.Printf("Account: %s\nXRP: %s\n%s: %s\nTrustLine: %t\n",
			args[0], b.XRPString(), v.GetString("token_currency"), b.TokenString(), b.HasTrustLine)
	},
}

func init() {
	genaccountCmd.Flags().Bool("secp256k1", false, "Derive a secp256k1 key instead of ed25519.")
	accountCmd.AddCommand(genaccountCmd)
	accountCmd.AddCommand(createAccountCmd)
	accountCmd.AddCommand(accountInfoCmd)
	rootCmd.AddCommand(accountCmd)
}

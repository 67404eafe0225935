package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key pair for the wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		privateKey, err := crypto.GenerateKey()
		if err != nil {
			return err
		}

		if err := os.MkdirAll(accountPath, 0755); err != nil {
			return err
		}

		if err := crypto.SaveECDSA(getPrivateKeyPath(), privateKey); err != nil {
			return err
		}

		addr, err := walletAddress()
		if err != nil {
			return err
		}

		fmt.Println(addr)
		return nil
	},
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the address for the wallet's key",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := walletAddress()
		if err != nil {
			return err
		}

		fmt.Println(addr)
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Have the ledger create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var acct map[string]any
		if err := send(http.MethodPost, "/v1/accounts", nil, &acct); err != nil {
			return err
		}

		return printJSON(acct)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(createCmd)
}

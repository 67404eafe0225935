package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var balanceAddress string

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print the balance of an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := balanceAddress
		if addr == "" {
			wa, err := walletAddress()
			if err != nil {
				return err
			}
			addr = string(wa)
		}

		var acct struct {
			Address string  `json:"address"`
			Balance float64 `json:"balance"`
		}
		if err := send(http.MethodGet, fmt.Sprintf("/v1/accounts/%s/balance", addr), nil, &acct); err != nil {
			return err
		}

		fmt.Println("For Account:", acct.Address)
		fmt.Println(acct.Balance)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVar(&balanceAddress, "address", "", "Address to query, the wallet's address by default.")
}

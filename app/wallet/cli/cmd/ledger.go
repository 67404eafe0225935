package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var (
	minerAddress string
	async        bool
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine the pending transactions into a block",
	RunE: func(cmd *cobra.Command, args []string) error {
		miner := minerAddress
		if miner == "" {
			wa, err := walletAddress()
			if err != nil {
				return err
			}
			miner = string(wa)
		}

		path := "/v1/mine"
		if async {
			path = "/v1/mine/async"
		}

		req := struct {
			Miner string `json:"miner_address"`
		}{
			Miner: miner,
		}

		var resp map[string]any
		if err := send(http.MethodPost, path, req, &resp); err != nil {
			return err
		}

		return printJSON(resp)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <hash>",
	Short: "Verify a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp map[string]any
		if err := send(http.MethodGet, "/v1/tx/verify/"+args[0], nil, &resp); err != nil {
			return err
		}

		return printJSON(resp)
	},
}

var taskCmd = &cobra.Command{
	Use:   "task <id>",
	Short: "Print the status of a background mining task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp map[string]any
		if err := send(http.MethodGet, "/v1/tasks/"+args[0], nil, &resp); err != nil {
			return err
		}

		return printJSON(resp)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a summary of the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp map[string]any
		if err := send(http.MethodGet, "/v1/stats", nil, &resp); err != nil {
			return err
		}

		return printJSON(resp)
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(statsCmd)
	mineCmd.Flags().StringVarP(&minerAddress, "miner", "m", "", "Address paid the reward, the wallet's address by default.")
	mineCmd.Flags().BoolVar(&async, "async", false, "Mine in the background and return the task.")
}

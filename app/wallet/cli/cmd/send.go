package cmd

import (
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	to     string
	amount float64
	kind   string
	data   string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction from the wallet's account",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := walletAddress()
		if err != nil {
			return err
		}

		tx := struct {
			Sender    string          `json:"sender"`
			Recipient string          `json:"recipient"`
			Amount    float64         `json:"amount"`
			Kind      string          `json:"type,omitempty"`
			Data      json.RawMessage `json:"data,omitempty"`
		}{
			Sender:    string(from),
			Recipient: to,
			Amount:    amount,
			Kind:      kind,
		}
		if data != "" {
			tx.Data = json.RawMessage(data)
		}

		var resp map[string]any
		if err := send(http.MethodPost, "/v1/tx/submit", tx, &resp); err != nil {
			return err
		}

		return printJSON(resp)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Recipient address.")
	sendCmd.Flags().Float64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.Flags().StringVarP(&kind, "type", "k", "", "Transaction type, transfer by default.")
	sendCmd.Flags().StringVarP(&data, "data", "d", "", "JSON payload for the transaction type.")
	sendCmd.MarkFlagRequired("to")
}

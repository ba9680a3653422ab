package main

import (
	"github.com/spf13/cobra"

	"intrinsic_valuation/pkg/api/market"
	"intrinsic_valuation/pkg/core/marketdata"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history TICKER",
		Short: "Fetch recent daily closing prices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticker, err := marketdata.NormalizeTicker(args[0])
			if err != nil {
				return err
			}
			prices, closeFn := marketdata.FromConfig(opts.cfg, opts.log, nil)
			defer closeFn()

			closes, err := prices.History(cmd.Context(), ticker)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), market.HistoryResponse{Ticker: ticker, History: closes})
		},
	}
}

package main

import (
	"github.com/spf13/cobra"

	"intrinsic_valuation/pkg/core/valuation"
)

func newWACCCommand(opts *rootOptions) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "wacc",
		Short: "Estimate the weighted average cost of capital",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in valuation.CapitalStructureInputs
			if err := readInput(cmd, input, &in); err != nil {
				return err
			}
			res, err := valuation.EstimateCostOfCapital(in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "capital structure file, JSON or HJSON (- for stdin)")
	return cmd
}

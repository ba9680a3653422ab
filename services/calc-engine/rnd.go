package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"intrinsic_valuation/pkg/core/valuation"
)

func newRDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rnd EXPENSE...",
		Short: "Capitalize an R&D history (oldest first, current year last)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			expenses := make([]float64, len(args))
			for i, a := range args {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("expense %d: %w", i+1, err)
				}
				expenses[i] = v
			}
			adj, err := valuation.CapitalizeRD(expenses)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), adj)
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"intrinsic_valuation/pkg/core/store"
)

func newPresetsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage stored valuation input presets",
	}

	var limit int
	search := &cobra.Command{
		Use:   "search QUERY",
		Short: "Find presets by ticker or company name prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := store.FromConfig(cmd.Context(), opts.cfg, opts.log)
			if err != nil {
				return err
			}
			defer closeFn()
			matches, err := repo.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", m.Ticker, m.Name)
			}
			return nil
		},
	}
	search.Flags().IntVarP(&limit, "limit", "n", store.DefaultSearchLimit, "maximum matches (at most 20)")

	show := &cobra.Command{
		Use:   "show TICKER",
		Short: "Print a preset's inputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := store.FromConfig(cmd.Context(), opts.cfg, opts.log)
			if err != nil {
				return err
			}
			defer closeFn()
			p, err := repo.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}

	imp := &cobra.Command{
		Use:   "import FILE...",
		Short: "Save presets from JSON or HJSON files ({ticker, name, inputs})",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeFn, err := store.FromConfig(cmd.Context(), opts.cfg, opts.log)
			if err != nil {
				return err
			}
			defer closeFn()
			for _, path := range args {
				var p store.Preset
				if err := readInput(cmd, path, &p); err != nil {
					return err
				}
				if err := repo.Save(cmd.Context(), p); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				opts.log.Info("preset saved", zap.String("ticker", p.Ticker), zap.String("file", path))
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", p.Ticker)
			}
			return nil
		},
	}

	cmd.AddCommand(search, show, imp)
	return cmd
}

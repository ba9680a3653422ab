package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"intrinsic_valuation/pkg/core/report"
	"intrinsic_valuation/pkg/core/store"
	"intrinsic_valuation/pkg/core/valuation"
)

func newValueCommand(opts *rootOptions) *cobra.Command {
	var (
		input    string
		preset   string
		format   string
		title    string
		currency string
		style    string
		width    int
	)

	cmd := &cobra.Command{
		Use:   "value",
		Short: "Run a full DCF valuation",
		Example: `  calc-engine value --input aapl.hjson --format terminal
  calc-engine value --preset AAPL --format markdown`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (input == "") == (preset == "") {
				return errors.New("exactly one of --input or --preset is required")
			}

			var in valuation.Inputs
			if preset != "" {
				repo, closeFn, err := store.FromConfig(cmd.Context(), opts.cfg, opts.log)
				if err != nil {
					return err
				}
				defer closeFn()
				p, err := repo.Get(cmd.Context(), preset)
				if err != nil {
					return err
				}
				in = p.Inputs
				if title == "" {
					title = fmt.Sprintf("%s (%s)", p.Name, p.Ticker)
				}
			} else if err := readInput(cmd, input, &in); err != nil {
				return err
			}

			res, err := valuation.Value(in)
			if err != nil {
				return err
			}
			opts.log.Debug("valuation complete", zap.Float64("value_per_share", res.ValuePerShare))

			out := cmd.OutOrStdout()
			if format == "json" {
				return printJSON(out, res)
			}

			md, err := report.Markdown(res, report.Options{Title: title, Currency: currency})
			if err != nil {
				return err
			}
			switch format {
			case "markdown":
				_, err = fmt.Fprint(out, md)
			case "html":
				var page string
				if page, err = report.HTML(md, title); err == nil {
					_, err = fmt.Fprint(out, page)
				}
			case "terminal":
				var styled string
				if styled, err = report.Terminal(md, style, width); err == nil {
					_, err = fmt.Fprint(out, styled)
				}
			default:
				err = fmt.Errorf("unknown format %q (json, markdown, html, terminal)", format)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "inputs file, JSON or HJSON (- for stdin)")
	cmd.Flags().StringVar(&preset, "preset", "", "load inputs from the preset store by ticker")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, markdown, html, terminal")
	cmd.Flags().StringVar(&title, "title", "", "report title")
	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO 4217 currency for report amounts")
	cmd.Flags().StringVar(&style, "style", "", "glamour style for terminal output (auto-detect when empty)")
	cmd.Flags().IntVar(&width, "width", 120, "word wrap width for terminal output")
	return cmd
}

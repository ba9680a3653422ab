// Package report renders valuation results as markdown, HTML and styled
// terminal output.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"intrinsic_valuation/pkg/core/utils"
	"intrinsic_valuation/pkg/core/valuation"
)

// Options controls report labelling.
type Options struct {
	// Title names the company, e.g. "Apple Inc. (AAPL)".
	Title string
	// Currency is an ISO 4217 code. Defaults to USD.
	Currency string
}

// Markdown builds the full report for res.
func Markdown(res valuation.Result, opts Options) (string, error) {
	code := opts.Currency
	if code == "" {
		code = "USD"
	}
	f, err := newFormatter(code)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	title := "Valuation"
	if opts.Title != "" {
		title = "Valuation: " + opts.Title
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Value per share:** %s\n\n", f.amount(res.ValuePerShare))

	b.WriteString("## Cost of capital\n\n")
	cc := res.CostOfCapitalComponents
	b.WriteString(utils.NewTable("Component", "Value").Align(1, utils.AlignRight).
		Row("Levered beta", ratio(cc.LeveredBeta, 3)).
		Row("Cost of equity", percent(cc.CostOfEquity)).
		Row("After-tax cost of debt", percent(cc.CostOfDebt)).
		Row("Market value of equity", f.millions(cc.MarketValueOfEquity)+"M").
		Row("Market value of debt", f.millions(cc.MarketValueOfDebt)+"M").
		Row("Equity weight", percent(cc.EquityWeight)).
		Row("Debt weight", percent(cc.DebtWeight)).
		Row("Cost of capital", percent(cc.CostOfCapital)).
		Row("Discount rate (high growth)", percent(res.DiscountRate)).
		Row("Discount rate (stable)", percent(res.StableDiscountRate)).
		String())
	b.WriteString("\n")

	if rd := res.RDAdjustment; rd != nil {
		b.WriteString("## R&D capitalization\n\n")
		b.WriteString(utils.NewTable("Item", "Value").Align(1, utils.AlignRight).
			Row("Operating income adjustment", f.millions(rd.Adjustment)+"M").
			Row("Unamortized research asset", f.millions(rd.UnamortizedAmount)+"M").
			String())
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Projection (%s millions)\n\n", code)
	b.WriteString(projectionTable(res.Projection, f).String())
	b.WriteString("\n")

	b.WriteString("## Equity bridge\n\n")
	fc := res.FinalComponents
	b.WriteString(utils.NewTable("Item", "Value").Align(1, utils.AlignRight).
		Row("PV of cash flows", f.millions(fc.PresentValueOfCashFlows)+"M").
		Row("PV of terminal value", f.millions(fc.PresentValueOfTerminalValue)+"M").
		Row("Value of operating assets", f.millions(fc.ValueOfOperatingAssets)+"M").
		Row("Probability of failure", percent(fc.ProbabilityOfFailure)).
		Row("Proceeds if failure", f.millions(fc.ProceedsIfFailure)+"M").
		Row("Value after distress", f.millions(fc.ValueOfOperatingAssetsAfterDistress)+"M").
		Row("+ Cash and marketable securities", f.millions(fc.CashAndMarketableSecurities)+"M").
		Row("+ Cross holdings and non-operating assets", f.millions(fc.CrossHoldingsAndOtherNonOperatingAssets)+"M").
		Row("- Debt", f.millions(fc.BookValueOfDebt)+"M").
		Row("- Minority interest", f.millions(fc.MinorityInterest)+"M").
		Row("- Options", f.millions(fc.ValueOfOptions)+"M").
		Row("Value of equity", f.millions(fc.ValueOfEquity)+"M").
		Row("Value per share", f.amount(res.ValuePerShare)).
		String())

	return b.String(), nil
}

func projectionTable(rows []valuation.ProjectionRow, f formatter) *utils.Table {
	t := utils.NewTable(
		"Year", "Phase", "Growth", "Revenue", "Margin", "EBIT", "Tax rate",
		"EBIT(1-t)", "Reinvestment", "FCFF", "NOL", "ROIC", "Cost of capital",
		"Discount factor", "PV(FCFF)", "Terminal value", "PV(TV)",
	)
	for i := 2; i <= 16; i++ {
		t.Align(i, utils.AlignRight)
	}

	for _, r := range rows {
		year := strconv.Itoa(r.Year)
		growth := percent(r.RevenueGrowthRate)
		switch r.Phase {
		case valuation.PhaseBase:
			year = "Base"
			growth = notApplicable
		case valuation.PhaseTerminal:
			year = "Terminal"
		}
		t.Row(
			year,
			string(r.Phase),
			growth,
			f.millions(r.Revenues),
			percent(r.OperatingMargin),
			f.millions(r.OperatingIncome),
			percent(r.TaxRate),
			f.millions(r.EBITAfterTax),
			f.millions(r.Reinvestment),
			f.millions(r.FCFF),
			f.millions(r.NOLCumulative),
			optPercent(r.ROIC),
			optPercent(r.CostOfCapital),
			optRatio(r.DiscountFactor, 4),
			f.optMillions(r.PVFCFF),
			f.optMillions(r.TerminalValue),
			f.optMillions(r.PVTerminalValue),
		)
	}
	return t
}

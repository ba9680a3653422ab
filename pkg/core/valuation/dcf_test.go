package valuation_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intrinsic_valuation/pkg/core/valuation"
	"intrinsic_valuation/pkg/core/valuation/fixtures"
)

func TestValue_Baseline(t *testing.T) {
	in := fixtures.BaseInputs()

	res, err := valuation.Value(in)
	require.NoError(t, err)

	rows := res.Projection
	require.Len(t, rows, in.YearsOfHighGrowth+2)
	assert.Equal(t, valuation.PhaseBase, rows[0].Phase)
	assert.Equal(t, 0, rows[0].Year)
	for i := 1; i <= in.YearsOfHighGrowth; i++ {
		assert.Equal(t, valuation.PhaseHighGrowth, rows[i].Phase)
		assert.Equal(t, i, rows[i].Year)
	}
	terminal := rows[len(rows)-1]
	assert.Equal(t, valuation.PhaseTerminal, terminal.Phase)
	assert.Equal(t, in.YearsOfHighGrowth+1, terminal.Year)

	// Base year carries no discounting cells.
	assert.Nil(t, rows[0].DiscountFactor)
	assert.Nil(t, rows[0].PVFCFF)
	assert.Nil(t, rows[0].CostOfCapital)
	assert.Nil(t, rows[0].TerminalValue)
	require.NotNil(t, terminal.TerminalValue)
	require.NotNil(t, terminal.PVTerminalValue)

	// Structural WACC and the mature-market rate used in stable growth.
	assert.Equal(t, res.CostOfCapitalComponents.CostOfCapital, res.DiscountRate)
	assert.Less(t, res.StableDiscountRate, res.DiscountRate)
	assert.Greater(t, res.StableDiscountRate, in.CompoundedAnnualRevenueGrowthRate)

	assert.Greater(t, res.ValuePerShare, 0.0)
}

func TestValue_Deterministic(t *testing.T) {
	first, err := valuation.Value(fixtures.BaseInputs())
	require.NoError(t, err)
	second, err := valuation.Value(fixtures.BaseInputs())
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestValue_Schedules(t *testing.T) {
	in := fixtures.BaseInputs()

	res, err := valuation.Value(in)
	require.NoError(t, err)
	rows := res.Projection

	assert.Equal(t, in.RevenueGrowthRateNextYear, rows[1].RevenueGrowthRate)
	assert.Equal(t, in.CompoundedAnnualRevenueGrowthRate, rows[in.YearsOfHighGrowth].RevenueGrowthRate)
	assert.Equal(t, in.OperatingMarginNextYear, rows[1].OperatingMargin)
	for year := in.YearOfConvergenceForMargin; year <= in.YearsOfHighGrowth; year++ {
		assert.Equal(t, in.TargetPreTaxOperatingMargin, rows[year].OperatingMargin, "year %d", year)
		assert.Equal(t, in.MarginalTaxRate, rows[year].TaxRate, "year %d", year)
	}

	for i := 1; i < len(rows)-1; i++ {
		assert.InDelta(t, rows[i-1].Revenues*(1+rows[i].RevenueGrowthRate), rows[i].Revenues, 1e-3)
		assert.InDelta(t, rows[i].Revenues*rows[i].OperatingMargin, rows[i].OperatingIncome, 1e-3)
		assert.InDelta(t, rows[i].EBITAfterTax-rows[i].Reinvestment, rows[i].FCFF, 1e-3)
	}

	// Year one reinvests at the early sales-to-capital ratio.
	assert.InDelta(t, (rows[1].Revenues-rows[0].Revenues)/in.SalesToCapitalRatioEarly, rows[1].Reinvestment, 1e-3)
}

func TestValue_ConvergenceAtFinalYear(t *testing.T) {
	in := fixtures.BaseInputs()
	in.YearOfConvergenceForMargin = in.YearsOfHighGrowth

	res, err := valuation.Value(in)
	require.NoError(t, err)

	last := res.Projection[in.YearsOfHighGrowth]
	assert.Equal(t, in.TargetPreTaxOperatingMargin, last.OperatingMargin)
}

func TestValue_PresentValueAccounting(t *testing.T) {
	res, err := valuation.Value(fixtures.BaseInputs())
	require.NoError(t, err)

	var sum float64
	prevFactor := 1.0
	for _, row := range res.Projection {
		if row.Phase != valuation.PhaseHighGrowth {
			continue
		}
		require.NotNil(t, row.CostOfCapital)
		require.NotNil(t, row.DiscountFactor)
		assert.InDelta(t, prevFactor/(1+*row.CostOfCapital), *row.DiscountFactor, 1e-12)
		prevFactor = *row.DiscountFactor
		sum += *row.PVFCFF
	}

	fc := res.FinalComponents
	assert.InDelta(t, sum, fc.PresentValueOfCashFlows, 1e-3)
	assert.InDelta(t, fc.PresentValueOfCashFlows+fc.PresentValueOfTerminalValue, fc.ValueOfOperatingAssets, 1e-3)

	terminal := res.Projection[len(res.Projection)-1]
	assert.InDelta(t, terminal.FCFF/(res.StableDiscountRate-terminal.RevenueGrowthRate), *terminal.TerminalValue, 1e-3)
	assert.InDelta(t, *terminal.TerminalValue*prevFactor, fc.PresentValueOfTerminalValue, 1e-3)
}

func TestValue_DiscountRateSchedule(t *testing.T) {
	in := fixtures.BaseInputs()
	in.YearsOfHighGrowth = 10
	in.YearOfConvergenceForMargin = 5

	res, err := valuation.Value(in)
	require.NoError(t, err)
	rows := res.Projection

	for year := 1; year <= in.YearOfConvergenceForMargin; year++ {
		assert.Equal(t, res.DiscountRate, *rows[year].CostOfCapital, "year %d", year)
	}
	for year := in.YearOfConvergenceForMargin + 1; year <= in.YearsOfHighGrowth; year++ {
		assert.Less(t, *rows[year].CostOfCapital, *rows[year-1].CostOfCapital, "year %d", year)
	}
	assert.Equal(t, res.StableDiscountRate, *rows[in.YearsOfHighGrowth].CostOfCapital)
	assert.Equal(t, res.StableDiscountRate, *rows[len(rows)-1].CostOfCapital)
}

func TestValue_TaxRateSchedule(t *testing.T) {
	in := fixtures.BaseInputs()

	res, err := valuation.Value(in)
	require.NoError(t, err)
	rows := res.Projection

	for year := 1; year < in.YearOfConvergenceForMargin; year++ {
		assert.Equal(t, in.EffectiveTaxRate, rows[year].TaxRate, "year %d", year)
	}
	for year := in.YearOfConvergenceForMargin; year <= in.YearsOfHighGrowth+1; year++ {
		assert.Equal(t, in.MarginalTaxRate, rows[year].TaxRate, "year %d", year)
	}

	in.YearOfConvergenceForMargin = 1
	res, err = valuation.Value(in)
	require.NoError(t, err)
	assert.Equal(t, in.MarginalTaxRate, res.Projection[1].TaxRate)
}

func TestValue_EquityBridge(t *testing.T) {
	in := fixtures.BaseInputs()

	res, err := valuation.Value(in)
	require.NoError(t, err)

	fc := res.FinalComponents
	p := in.ProbabilityOfFailure
	assert.InDelta(t, fc.ValueOfOperatingAssets*0.5, fc.ProceedsIfFailure, 1e-3)
	assert.InDelta(t, fc.ValueOfOperatingAssets*(1-p)+fc.ProceedsIfFailure*p, fc.ValueOfOperatingAssetsAfterDistress, 1e-3)

	want := fc.ValueOfOperatingAssetsAfterDistress +
		in.CashAndMarketableSecurities +
		in.CrossHoldingsAndOtherNonOperatingAssets -
		in.BookValueOfDebt -
		in.MinorityInterest -
		in.ValueOfOptions
	assert.InDelta(t, want, fc.ValueOfEquity, 1e-3)
	assert.InDelta(t, fc.ValueOfEquity/in.SharesOutstanding, res.ValuePerShare, 1e-9)
}

func TestValue_BookCapitalDistress(t *testing.T) {
	in := fixtures.BaseInputs()
	in.DistressProceeds = valuation.DistressBookCapital

	res, err := valuation.Value(in)
	require.NoError(t, err)

	assert.Equal(t, in.BookValueOfEquity+in.BookValueOfDebt, res.FinalComponents.ProceedsIfFailure)
}

func TestValue_FailureProbabilityIsMonotone(t *testing.T) {
	prev := 0.0
	for i := 0; i <= 10; i++ {
		in := fixtures.BaseInputs()
		in.ProbabilityOfFailure = float64(i) / 10

		res, err := valuation.Value(in)
		require.NoError(t, err)
		if i > 0 {
			assert.LessOrEqual(t, res.ValuePerShare, prev, "p=%.1f", in.ProbabilityOfFailure)
		}
		prev = res.ValuePerShare
	}
}

func TestValue_DiscountRateOverride(t *testing.T) {
	in := fixtures.BaseInputs()
	rate := 0.091
	in.DiscountRate = &rate

	res, err := valuation.Value(in)
	require.NoError(t, err)

	assert.Equal(t, rate, res.DiscountRate)
	assert.Equal(t, rate, res.StableDiscountRate)
	for _, row := range res.Projection[1:] {
		require.NotNil(t, row.CostOfCapital)
		assert.Equal(t, rate, *row.CostOfCapital)
	}

	// The structural estimate is still reported.
	structural, err := valuation.Value(fixtures.BaseInputs())
	require.NoError(t, err)
	assert.Equal(t, structural.CostOfCapitalComponents, res.CostOfCapitalComponents)
	assert.NotEqual(t, rate, res.CostOfCapitalComponents.CostOfCapital)
}

func TestValue_ExplicitZeroDiscountRate(t *testing.T) {
	in := fixtures.BaseInputs()
	zero := 0.0
	roic := 0.1
	in.DiscountRate = &zero
	in.StableReturnOnCapital = &roic
	in.CompoundedAnnualRevenueGrowthRate = -0.01

	res, err := valuation.Value(in)
	require.NoError(t, err)

	assert.Zero(t, res.DiscountRate)
	for _, row := range res.Projection[1 : len(res.Projection)-1] {
		assert.Equal(t, 1.0, *row.DiscountFactor)
		assert.Equal(t, row.FCFF, *row.PVFCFF)
	}
}

func TestValue_RDCapitalization(t *testing.T) {
	with, err := valuation.Value(fixtures.BaseInputs())
	require.NoError(t, err)

	in := fixtures.BaseInputs()
	in.RAndDExpenses = []float64{}
	empty, err := valuation.Value(in)
	require.NoError(t, err)

	in.RAndDExpenses = nil
	absent, err := valuation.Value(in)
	require.NoError(t, err)

	assert.Equal(t, absent, empty)
	assert.Nil(t, empty.RDAdjustment)

	require.NotNil(t, with.RDAdjustment)
	adj, err := valuation.CapitalizeRD(fixtures.BaseInputs().RAndDExpenses)
	require.NoError(t, err)
	assert.Equal(t, adj, *with.RDAdjustment)
	assert.InDelta(t, in.OperatingIncome+adj.Adjustment, with.Projection[0].OperatingIncome, 1e-3)
	assert.InDelta(t, empty.Projection[0].InvestedCapital+adj.UnamortizedAmount, with.Projection[0].InvestedCapital, 1e-3)
}

func TestValue_OperatingLossCarryforward(t *testing.T) {
	var in valuation.Inputs
	for _, c := range fixtures.DCFCases() {
		if c.Name == "negative_operating_income" {
			in = c.Inputs
		}
	}
	require.NotZero(t, in.Revenues)

	res, err := valuation.Value(in)
	require.NoError(t, err)

	base := res.Projection[0]
	require.Less(t, base.OperatingIncome, 0.0)
	assert.Zero(t, base.Taxes)
	assert.InDelta(t, -base.OperatingIncome*0.8, base.NOL, 1e-3)

	for _, row := range res.Projection {
		assert.GreaterOrEqual(t, row.NOLCumulative, 0.0, "year %d", row.Year)
		assert.GreaterOrEqual(t, row.Taxes, 0.0, "year %d", row.Year)
		if row.Phase == valuation.PhaseHighGrowth && row.OperatingIncome > 0 {
			assert.LessOrEqual(t, row.NOLUtilized, row.OperatingIncome+1e-6, "year %d", row.Year)
		}
	}
	// The carried loss exceeds year one income, which is fully sheltered.
	year1 := res.Projection[1]
	require.Greater(t, year1.OperatingIncome, 0.0)
	assert.InDelta(t, year1.OperatingIncome, year1.NOLUtilized, 1e-6)
	assert.Zero(t, year1.Taxes)
	assert.InDelta(t, base.NOL-year1.NOLUtilized, year1.NOLCumulative, 1e-3)
}

func TestValue_StableGrowthAboveDiscountRate(t *testing.T) {
	in := fixtures.BaseInputs()
	in.CompoundedAnnualRevenueGrowthRate = 0.2

	_, err := valuation.Value(in)
	assert.ErrorIs(t, err, valuation.ErrInvalidAssumption)

	rate := 0.06
	in = fixtures.BaseInputs()
	in.DiscountRate = &rate
	in.CompoundedAnnualRevenueGrowthRate = 0.06
	_, err = valuation.Value(in)
	assert.ErrorIs(t, err, valuation.ErrInvalidAssumption)
}

func TestValue_NonPositiveStableReturn(t *testing.T) {
	in := fixtures.BaseInputs()
	roic := 0.0
	in.StableReturnOnCapital = &roic

	_, err := valuation.Value(in)
	assert.ErrorIs(t, err, valuation.ErrInvalidAssumption)
}

func TestValue_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*valuation.Inputs)
	}{
		{"zero shares", func(in *valuation.Inputs) { in.SharesOutstanding = 0 }},
		{"negative high growth years", func(in *valuation.Inputs) { in.YearsOfHighGrowth = -1 }},
		{"high growth years above maximum", func(in *valuation.Inputs) { in.YearsOfHighGrowth = valuation.MaxYearsOfHighGrowth + 1 }},
		{"huge high growth horizon", func(in *valuation.Inputs) { in.YearsOfHighGrowth = 1_000_000_000 }},
		{"convergence before year one", func(in *valuation.Inputs) { in.YearOfConvergenceForMargin = 0 }},
		{"convergence after high growth", func(in *valuation.Inputs) { in.YearOfConvergenceForMargin = in.YearsOfHighGrowth + 1 }},
		{"failure probability above one", func(in *valuation.Inputs) { in.ProbabilityOfFailure = 1.5 }},
		{"negative tax rate", func(in *valuation.Inputs) { in.EffectiveTaxRate = -0.1 }},
		{"zero sales to capital", func(in *valuation.Inputs) { in.SalesToCapitalRatioSteady = 0 }},
		{"short r&d history", func(in *valuation.Inputs) { in.RAndDExpenses = []float64{100} }},
		{"unknown distress basis", func(in *valuation.Inputs) { in.DistressProceeds = "liquidation" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fixtures.BaseInputs()
			tt.mutate(&in)
			_, err := valuation.Value(in)
			assert.ErrorIs(t, err, valuation.ErrInvalidInput)
		})
	}
}

func TestInputs_DiscountRateJSON(t *testing.T) {
	var absent valuation.Inputs
	require.NoError(t, json.Unmarshal([]byte(`{"revenues": 10}`), &absent))
	assert.Nil(t, absent.DiscountRate)

	var zero valuation.Inputs
	require.NoError(t, json.Unmarshal([]byte(`{"discount_rate": 0}`), &zero))
	require.NotNil(t, zero.DiscountRate)
	assert.Zero(t, *zero.DiscountRate)
}

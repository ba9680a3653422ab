// Package fixtures holds named reference cases for the valuation engine and
// evaluates them into a serializable document. The cases double as regression
// inputs for tests and as seed data for the fixture generator tool.
package fixtures

import (
	"intrinsic_valuation/pkg/core/valuation"
)

// CostOfCapitalCase is a named cost-of-capital scenario.
type CostOfCapitalCase struct {
	Name   string                           `json:"name"`
	Inputs valuation.CapitalStructureInputs `json:"inputs"`
}

// RDCase is a named R&D history, oldest first.
type RDCase struct {
	Name     string    `json:"name"`
	Expenses []float64 `json:"expenses"`
}

// DCFCase is a named full valuation scenario.
type DCFCase struct {
	Name   string           `json:"name"`
	Inputs valuation.Inputs `json:"inputs"`
}

// CostOfCapitalCases returns the cost-of-capital scenarios.
func CostOfCapitalCases() []CostOfCapitalCase {
	return []CostOfCapitalCase{
		{
			Name: "baseline",
			Inputs: valuation.CapitalStructureInputs{
				InterestExpense:   320_000_000,
				PreTaxCostOfDebt:  0.052,
				AverageMaturity:   6,
				BookValueOfDebt:   9_800_000_000,
				SharesOutstanding: 980_000_000,
				CurrentPrice:      172.4,
				UnleveredBeta:     1.08,
				TaxRate:           0.21,
				RiskFreeRate:      0.041,
				EquityRiskPremium: 0.048,
			},
		},
		{
			Name: "higher_leverage",
			Inputs: valuation.CapitalStructureInputs{
				InterestExpense:   980_000_000,
				PreTaxCostOfDebt:  0.081,
				AverageMaturity:   8,
				BookValueOfDebt:   27_000_000_000,
				SharesOutstanding: 620_000_000,
				CurrentPrice:      81.7,
				UnleveredBeta:     0.92,
				TaxRate:           0.25,
				RiskFreeRate:      0.038,
				EquityRiskPremium: 0.061,
			},
		},
		{
			Name: "low_debt_profile",
			Inputs: valuation.CapitalStructureInputs{
				InterestExpense:   40_000_000,
				PreTaxCostOfDebt:  0.034,
				AverageMaturity:   4,
				BookValueOfDebt:   1_200_000_000,
				SharesOutstanding: 2_100_000_000,
				CurrentPrice:      55.2,
				UnleveredBeta:     1.15,
				TaxRate:           0.19,
				RiskFreeRate:      0.037,
				EquityRiskPremium: 0.05,
			},
		},
	}
}

// RDCases returns the R&D capitalization scenarios.
func RDCases() []RDCase {
	return []RDCase{
		{Name: "five_year_history", Expenses: []float64{310, 350, 390, 420, 470, 520}},
		{Name: "declining_spend", Expenses: []float64{130, 145, 160, 180}},
		{Name: "flat_spend", Expenses: []float64{100, 100, 100, 100, 100}},
		{Name: "minimal_valid_length", Expenses: []float64{70, 120}},
	}
}

// BaseInputs returns the baseline valuation inputs every DCF case starts from.
func BaseInputs() valuation.Inputs {
	return valuation.Inputs{
		Revenues:                                18_400_000_000,
		OperatingIncome:                         3_250_000_000,
		InterestExpense:                         360_000_000,
		BookValueOfEquity:                       14_200_000_000,
		BookValueOfDebt:                         9_600_000_000,
		CashAndMarketableSecurities:             2_400_000_000,
		CrossHoldingsAndOtherNonOperatingAssets: 470_000_000,
		MinorityInterest:                        210_000_000,
		SharesOutstanding:                       840_000_000,
		CurrentPrice:                            132.5,
		EffectiveTaxRate:                        0.185,
		MarginalTaxRate:                         0.21,
		UnleveredBeta:                           1.04,
		RiskFreeRate:                            0.039,
		EquityRiskPremium:                       0.052,
		MatureERP:                               0.043,
		PreTaxCostOfDebt:                        0.056,
		AverageMaturity:                         6,
		ProbabilityOfFailure:                    0.05,
		ValueOfOptions:                          170_000_000,
		RevenueGrowthRateNextYear:               0.081,
		OperatingMarginNextYear:                 0.181,
		CompoundedAnnualRevenueGrowthRate:       0.067,
		TargetPreTaxOperatingMargin:             0.194,
		YearOfConvergenceForMargin:              5,
		YearsOfHighGrowth:                       6,
		SalesToCapitalRatioEarly:                1.6,
		SalesToCapitalRatioSteady:               1.22,
		RAndDExpenses:                           []float64{410_000_000, 450_000_000, 490_000_000, 530_000_000, 580_000_000, 620_000_000},
	}
}

// DCFCases returns the valuation scenarios. growth_margin_boundaries pairs an
// 8.5% stable growth rate with a lower stable cost of capital and is expected
// to fail with valuation.ErrInvalidAssumption.
func DCFCases() []DCFCase {
	noRD := BaseInputs()
	noRD.RAndDExpenses = nil

	negative := BaseInputs()
	negative.OperatingIncome = -480_000_000
	negative.OperatingMarginNextYear = 0.01
	negative.TargetPreTaxOperatingMargin = 0.12

	override := BaseInputs()
	rate := 0.091
	override.DiscountRate = &rate

	boundaries := BaseInputs()
	boundaries.YearsOfHighGrowth = 2
	boundaries.YearOfConvergenceForMargin = 1
	boundaries.RevenueGrowthRateNextYear = 0.12
	boundaries.CompoundedAnnualRevenueGrowthRate = 0.085

	return []DCFCase{
		{Name: "baseline", Inputs: BaseInputs()},
		{Name: "no_r_and_d_adjustment", Inputs: noRD},
		{Name: "negative_operating_income", Inputs: negative},
		{Name: "discount_rate_override", Inputs: override},
		{Name: "growth_margin_boundaries", Inputs: boundaries},
	}
}

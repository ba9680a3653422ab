package valuation

import "math"

// CapitalStructureInputs are the market and balance-sheet inputs of the cost of
// capital.
type CapitalStructureInputs struct {
	InterestExpense   float64 `json:"interest_expense"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt"`
	AverageMaturity   float64 `json:"average_maturity"` // years
	BookValueOfDebt   float64 `json:"bv_debt"`
	SharesOutstanding float64 `json:"num_shares_outstanding"`
	CurrentPrice      float64 `json:"curr_price"`
	UnleveredBeta     float64 `json:"unlevered_beta"`
	TaxRate           float64 `json:"tax_rate"`
	RiskFreeRate      float64 `json:"risk_free_rate"`
	EquityRiskPremium float64 `json:"equity_risk_premium"`
}

// CostOfCapitalResult holds the calculated rates and the market-value weights
// behind them.
type CostOfCapitalResult struct {
	LeveredBeta         float64 `json:"levered_beta"`
	CostOfEquity        float64 `json:"cost_of_equity"`
	CostOfDebt          float64 `json:"cost_of_debt"` // After-tax
	MarketValueOfDebt   float64 `json:"market_value_of_debt"`
	MarketValueOfEquity float64 `json:"market_value_of_equity"`
	EquityWeight        float64 `json:"equity_weight"`
	DebtWeight          float64 `json:"debt_weight"`
	CostOfCapital       float64 `json:"cost_of_capital"`
	RiskFreeRate        float64 `json:"risk_free_rate"`
	EquityRiskPremium   float64 `json:"equity_risk_premium"`
}

// EstimateCostOfCapital computes the Weighted Average Cost of Capital using
// market-value weights, the Hamada relevering equation and CAPM.
func EstimateCostOfCapital(in CapitalStructureInputs) (CostOfCapitalResult, error) {
	switch {
	case in.SharesOutstanding <= 0:
		return CostOfCapitalResult{}, invalidInput("shares outstanding must be positive, got %g", in.SharesOutstanding)
	case in.CurrentPrice < 0:
		return CostOfCapitalResult{}, invalidInput("current price must not be negative, got %g", in.CurrentPrice)
	case in.TaxRate < 0 || in.TaxRate > 1:
		return CostOfCapitalResult{}, invalidInput("tax rate must be within [0,1], got %g", in.TaxRate)
	case in.AverageMaturity < 0:
		return CostOfCapitalResult{}, invalidInput("average maturity must not be negative, got %g", in.AverageMaturity)
	case in.PreTaxCostOfDebt <= -1:
		return CostOfCapitalResult{}, invalidInput("pre-tax cost of debt must exceed -100%%, got %g", in.PreTaxCostOfDebt)
	}

	// 1. Market value of equity
	equity := in.SharesOutstanding * in.CurrentPrice

	// 2. Market value of debt: book debt priced as a level-coupon bond
	debt := MarketValueOfDebt(in.InterestExpense, in.BookValueOfDebt, in.PreTaxCostOfDebt, in.AverageMaturity)

	capital := debt + equity
	if capital == 0 {
		return CostOfCapitalResult{}, invalidInput("market value of debt plus equity is zero")
	}
	if equity == 0 {
		return CostOfCapitalResult{}, invalidInput("market value of equity is zero, beta cannot be relevered")
	}

	// 3. Re-lever Beta (Hamada)
	// BetaL = BetaU * (1 + (1-t)*(D/E))
	leveredBeta := in.UnleveredBeta * (1 + (1-in.TaxRate)*(debt/equity))

	// 4. Cost of Equity (CAPM)
	// Ke = Rf + BetaL * ERP
	ke := in.RiskFreeRate + leveredBeta*in.EquityRiskPremium

	// 5. Cost of Debt (After-tax)
	kd := in.PreTaxCostOfDebt * (1 - in.TaxRate)

	// 6. Weights
	we := equity / capital
	wd := debt / capital

	// 7. WACC
	wacc := (ke * we) + (kd * wd)

	return CostOfCapitalResult{
		LeveredBeta:         leveredBeta,
		CostOfEquity:        ke,
		CostOfDebt:          kd,
		MarketValueOfDebt:   debt,
		MarketValueOfEquity: equity,
		EquityWeight:        we,
		DebtWeight:          wd,
		CostOfCapital:       wacc,
		RiskFreeRate:        in.RiskFreeRate,
		EquityRiskPremium:   in.EquityRiskPremium,
	}, nil
}

// MarketValueOfDebt prices book debt as an annual level-coupon bond: the
// coupon is the interest expense, the face value is the book debt and the
// term is the average maturity, all discounted at the pre-tax cost of debt.
//
//	PV = coupon * (1 - (1+kd)^-n) / kd + face / (1+kd)^n
func MarketValueOfDebt(interest, face, kd, maturity float64) float64 {
	if kd == 0 {
		return interest*maturity + face
	}
	discount := math.Pow(1+kd, -maturity)
	return interest*(1-discount)/kd + face*discount
}

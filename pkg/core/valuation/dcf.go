package valuation

// DistressBasis selects what the firm is assumed to fetch if it fails.
type DistressBasis string

const (
	// DistressFireSale assumes failure proceeds of half the going-concern value.
	DistressFireSale DistressBasis = "fire_sale"
	// DistressBookCapital assumes failure proceeds equal to book equity plus book debt.
	DistressBookCapital DistressBasis = "book_capital"
)

// fireSaleRecovery is the share of going-concern value recovered in a fire sale.
const fireSaleRecovery = 0.5

// nolCarryforwardShare is the share of an operating loss that can be carried
// forward against later income.
const nolCarryforwardShare = 0.8

// MaxYearsOfHighGrowth bounds the explicit projection horizon.
const MaxYearsOfHighGrowth = 50

// Phase tags a projection row.
type Phase string

const (
	PhaseBase       Phase = "base"
	PhaseHighGrowth Phase = "high_growth"
	PhaseTerminal   Phase = "terminal"
)

// Inputs encapsulates all inputs required for a Discounted Cash Flow valuation.
type Inputs struct {
	// Current financials
	Revenues                                float64 `json:"revenues"`
	OperatingIncome                         float64 `json:"operating_income"`
	InterestExpense                         float64 `json:"interest_expense"`
	BookValueOfEquity                       float64 `json:"book_value_of_equity"`
	BookValueOfDebt                         float64 `json:"book_value_of_debt"`
	CashAndMarketableSecurities             float64 `json:"cash_and_marketable_securities"`
	CrossHoldingsAndOtherNonOperatingAssets float64 `json:"cross_holdings_and_other_non_operating_assets"`
	MinorityInterest                        float64 `json:"minority_interest"`
	SharesOutstanding                       float64 `json:"number_of_shares_outstanding"`
	CurrentPrice                            float64 `json:"curr_price"`
	EffectiveTaxRate                        float64 `json:"effective_tax_rate"`
	MarginalTaxRate                         float64 `json:"marginal_tax_rate"`

	// Risk
	UnleveredBeta     float64 `json:"unlevered_beta"`
	RiskFreeRate      float64 `json:"risk_free_rate"`
	EquityRiskPremium float64 `json:"equity_risk_premium"`
	MatureERP         float64 `json:"mature_erp"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt"`
	AverageMaturity   float64 `json:"average_maturity"`

	// Distress and dilution
	ProbabilityOfFailure float64       `json:"prob_of_failure"`
	DistressProceeds     DistressBasis `json:"distress_proceeds,omitempty"`
	ValueOfOptions       float64       `json:"value_of_options"`

	// Growth schedule
	RevenueGrowthRateNextYear         float64 `json:"revenue_growth_rate_next_year"`
	OperatingMarginNextYear           float64 `json:"operating_margin_next_year"`
	CompoundedAnnualRevenueGrowthRate float64 `json:"compounded_annual_revenue_growth_rate"`
	TargetPreTaxOperatingMargin       float64 `json:"target_pre_tax_operating_margin"`
	YearOfConvergenceForMargin        int     `json:"year_of_convergence_for_margin"`
	YearsOfHighGrowth                 int     `json:"years_of_high_growth"`
	SalesToCapitalRatioEarly          float64 `json:"sales_to_capital_ratio_early"`
	SalesToCapitalRatioSteady         float64 `json:"sales_to_capital_ratio_steady"`

	// RAndDExpenses is the R&D history, oldest first. Empty skips capitalization.
	RAndDExpenses []float64 `json:"r_and_d_expenses"`
	// DiscountRate overrides the computed cost of capital when set.
	DiscountRate *float64 `json:"discount_rate"`
	// StableReturnOnCapital is the return on new capital in stable growth.
	// Defaults to the stable discount rate.
	StableReturnOnCapital *float64 `json:"stable_return_on_capital,omitempty"`
}

// ProjectionRow is one year of the projection table. Pointer fields are nil
// where the cell does not apply to the row.
type ProjectionRow struct {
	Year              int      `json:"year"`
	Phase             Phase    `json:"phase"`
	RevenueGrowthRate float64  `json:"revenue_growth_rate"`
	Revenues          float64  `json:"revenues"`
	OperatingMargin   float64  `json:"operating_margin"`
	OperatingIncome   float64  `json:"operating_income"`
	TaxRate           float64  `json:"tax_rate"`
	Taxes             float64  `json:"taxes"`
	NOL               float64  `json:"nol"`
	NOLCumulative     float64  `json:"nol_cumulative"`
	NOLUtilized       float64  `json:"nol_utilized"`
	EBITAfterTax      float64  `json:"ebit_after_tax"`
	Reinvestment      float64  `json:"reinvestment"`
	InvestedCapital   float64  `json:"invested_capital"`
	ROIC              *float64 `json:"roic"`
	CostOfCapital     *float64 `json:"cost_of_capital"`
	FCFF              float64  `json:"fcff"`
	DiscountFactor    *float64 `json:"discount_factor"`
	PVFCFF            *float64 `json:"pv_fcff"`
	TerminalValue     *float64 `json:"terminal_value"`
	PVTerminalValue   *float64 `json:"pv_terminal_value"`
}

// FinalComponents bridges the value of operating assets to equity value.
type FinalComponents struct {
	PresentValueOfCashFlows                 float64 `json:"present_value_of_cash_flows"`
	PresentValueOfTerminalValue             float64 `json:"present_value_of_terminal_value"`
	ValueOfOperatingAssets                  float64 `json:"value_of_operating_assets"`
	ProbabilityOfFailure                    float64 `json:"probability_of_failure"`
	ProceedsIfFailure                       float64 `json:"proceeds_if_failure"`
	ValueOfOperatingAssetsAfterDistress     float64 `json:"value_of_operating_assets_after_distress"`
	CashAndMarketableSecurities             float64 `json:"cash_and_marketable_securities"`
	CrossHoldingsAndOtherNonOperatingAssets float64 `json:"cross_holdings_and_other_non_operating_assets"`
	BookValueOfDebt                         float64 `json:"book_value_of_debt"`
	MinorityInterest                        float64 `json:"minority_interest"`
	ValueOfOptions                          float64 `json:"value_of_options"`
	ValueOfEquity                           float64 `json:"value_of_equity"`
}

// Result holds the valuation outputs.
type Result struct {
	ValuePerShare float64         `json:"value_per_share"`
	Projection    []ProjectionRow `json:"projection"`
	// CostOfCapitalComponents is the structurally computed WACC, reported even
	// when DiscountRate overrides it.
	CostOfCapitalComponents CostOfCapitalResult `json:"cost_of_capital_components"`
	// DiscountRate applies through the margin convergence year; row rates
	// then ramp to StableDiscountRate by the final explicit year.
	DiscountRate       float64         `json:"discount_rate"`
	StableDiscountRate float64         `json:"stable_discount_rate"`
	FinalComponents    FinalComponents `json:"final_components"`
	RDAdjustment       *RDAdjustment   `json:"r_and_d_adjustment"`
}

// Value runs the full valuation: R&D normalization, cost of capital, the
// high-growth projection, the stable-growth terminal value, the distress
// adjustment and the bridge from operating assets to value per share.
func Value(in Inputs) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}

	// 1. Normalize operating income
	operatingIncome := in.OperatingIncome
	researchAsset := 0.0
	var rd *RDAdjustment
	if len(in.RAndDExpenses) > 0 {
		adj, err := CapitalizeRD(in.RAndDExpenses)
		if err != nil {
			return Result{}, err
		}
		operatingIncome += adj.Adjustment
		researchAsset = adj.UnamortizedAmount
		rd = &adj
	}

	// 2. Discount rates
	structural, err := EstimateCostOfCapital(in.capitalStructure(in.EquityRiskPremium))
	if err != nil {
		return Result{}, err
	}
	highGrowthRate := structural.CostOfCapital
	var stableRate float64
	if in.DiscountRate != nil {
		highGrowthRate = *in.DiscountRate
		stableRate = *in.DiscountRate
	} else {
		mature, err := EstimateCostOfCapital(in.capitalStructure(in.MatureERP))
		if err != nil {
			return Result{}, err
		}
		stableRate = mature.CostOfCapital
	}

	stableGrowth := in.CompoundedAnnualRevenueGrowthRate
	if stableRate <= stableGrowth {
		return Result{}, invalidAssumption("stable discount rate %g must exceed stable growth rate %g", stableRate, stableGrowth)
	}
	stableROIC := stableRate
	if in.StableReturnOnCapital != nil {
		stableROIC = *in.StableReturnOnCapital
	}
	if stableROIC <= 0 {
		return Result{}, invalidAssumption("stable return on capital must be positive, got %g", stableROIC)
	}

	// 3. Base year
	rows := make([]ProjectionRow, 0, in.YearsOfHighGrowth+2)
	nol := &nolLedger{}

	baseMargin := 0.0
	if in.Revenues != 0 {
		baseMargin = operatingIncome / in.Revenues
	}
	base := ProjectionRow{
		Year:            0,
		Phase:           PhaseBase,
		Revenues:        in.Revenues,
		OperatingMargin: baseMargin,
		OperatingIncome: operatingIncome,
		TaxRate:         in.EffectiveTaxRate,
		InvestedCapital: in.BookValueOfEquity + in.BookValueOfDebt - in.CashAndMarketableSecurities + researchAsset,
	}
	nol.apply(&base)
	base.EBITAfterTax = base.OperatingIncome - base.Taxes
	base.FCFF = base.EBITAfterTax
	if base.InvestedCapital > 0 {
		base.ROIC = ptr(base.EBITAfterTax / base.InvestedCapital)
	}
	rows = append(rows, base)

	// 4. High-growth years
	var pvCashFlows float64
	discountFactor := 1.0
	prev := base
	for year := 1; year <= in.YearsOfHighGrowth; year++ {
		growth := Ramp(in.RevenueGrowthRateNextYear, stableGrowth, in.YearsOfHighGrowth, year)
		margin := Ramp(in.OperatingMarginNextYear, in.TargetPreTaxOperatingMargin, in.YearOfConvergenceForMargin, year)
		salesToCapital := Ramp(in.SalesToCapitalRatioEarly, in.SalesToCapitalRatioSteady, in.YearsOfHighGrowth, year)

		row := ProjectionRow{
			Year:              year,
			Phase:             PhaseHighGrowth,
			RevenueGrowthRate: growth,
			Revenues:          prev.Revenues * (1 + growth),
			OperatingMargin:   margin,
			TaxRate:           HoldThenRamp(in.EffectiveTaxRate, in.MarginalTaxRate, in.YearOfConvergenceForMargin-1, in.YearOfConvergenceForMargin, year),
			CostOfCapital:     ptr(HoldThenRamp(highGrowthRate, stableRate, in.YearOfConvergenceForMargin, in.YearsOfHighGrowth, year)),
		}
		row.OperatingIncome = row.Revenues * margin
		nol.apply(&row)
		row.EBITAfterTax = row.OperatingIncome - row.Taxes

		row.Reinvestment = (row.Revenues - prev.Revenues) / salesToCapital
		row.InvestedCapital = prev.InvestedCapital + row.Reinvestment
		if prev.InvestedCapital > 0 {
			row.ROIC = ptr(row.EBITAfterTax / prev.InvestedCapital)
		}

		row.FCFF = row.EBITAfterTax - row.Reinvestment
		discountFactor /= 1 + *row.CostOfCapital
		row.DiscountFactor = ptr(discountFactor)
		row.PVFCFF = ptr(row.FCFF * discountFactor)
		pvCashFlows += *row.PVFCFF

		rows = append(rows, row)
		prev = row
	}

	// 5. Terminal year (Gordon Growth)
	terminal := ProjectionRow{
		Year:              in.YearsOfHighGrowth + 1,
		Phase:             PhaseTerminal,
		RevenueGrowthRate: stableGrowth,
		Revenues:          prev.Revenues * (1 + stableGrowth),
		OperatingMargin:   in.TargetPreTaxOperatingMargin,
		TaxRate:           in.MarginalTaxRate,
		NOLCumulative:     nol.balance,
		ROIC:              ptr(stableROIC),
		CostOfCapital:     ptr(stableRate),
		DiscountFactor:    ptr(discountFactor),
	}
	terminal.OperatingIncome = terminal.Revenues * terminal.OperatingMargin
	if terminal.OperatingIncome > 0 {
		terminal.Taxes = terminal.OperatingIncome * terminal.TaxRate
	}
	terminal.EBITAfterTax = terminal.OperatingIncome - terminal.Taxes
	terminal.Reinvestment = stableGrowth / stableROIC * terminal.EBITAfterTax
	terminal.InvestedCapital = prev.InvestedCapital + terminal.Reinvestment
	terminal.FCFF = terminal.EBITAfterTax - terminal.Reinvestment

	terminalValue := terminal.FCFF / (stableRate - stableGrowth)
	pvTerminal := terminalValue * discountFactor
	terminal.TerminalValue = ptr(terminalValue)
	terminal.PVTerminalValue = ptr(pvTerminal)
	rows = append(rows, terminal)

	// 6. Distress
	operatingAssets := pvCashFlows + pvTerminal
	proceeds := operatingAssets * fireSaleRecovery
	if in.DistressProceeds == DistressBookCapital {
		proceeds = in.BookValueOfEquity + in.BookValueOfDebt
	}
	p := in.ProbabilityOfFailure
	afterDistress := operatingAssets*(1-p) + proceeds*p

	// 7. Equity bridge
	equity := afterDistress +
		in.CashAndMarketableSecurities +
		in.CrossHoldingsAndOtherNonOperatingAssets -
		in.BookValueOfDebt -
		in.MinorityInterest -
		in.ValueOfOptions

	return Result{
		ValuePerShare:           equity / in.SharesOutstanding,
		Projection:              rows,
		CostOfCapitalComponents: structural,
		DiscountRate:            highGrowthRate,
		StableDiscountRate:      stableRate,
		RDAdjustment:            rd,
		FinalComponents: FinalComponents{
			PresentValueOfCashFlows:                 pvCashFlows,
			PresentValueOfTerminalValue:             pvTerminal,
			ValueOfOperatingAssets:                  operatingAssets,
			ProbabilityOfFailure:                    p,
			ProceedsIfFailure:                       proceeds,
			ValueOfOperatingAssetsAfterDistress:     afterDistress,
			CashAndMarketableSecurities:             in.CashAndMarketableSecurities,
			CrossHoldingsAndOtherNonOperatingAssets: in.CrossHoldingsAndOtherNonOperatingAssets,
			BookValueOfDebt:                         in.BookValueOfDebt,
			MinorityInterest:                        in.MinorityInterest,
			ValueOfOptions:                          in.ValueOfOptions,
			ValueOfEquity:                           equity,
		},
	}, nil
}

func (in Inputs) validate() error {
	switch {
	case in.SharesOutstanding <= 0:
		return invalidInput("number of shares outstanding must be positive, got %g", in.SharesOutstanding)
	case in.YearsOfHighGrowth < 0 || in.YearsOfHighGrowth > MaxYearsOfHighGrowth:
		return invalidInput("years of high growth must be within [0,%d], got %d", MaxYearsOfHighGrowth, in.YearsOfHighGrowth)
	case in.YearOfConvergenceForMargin < 1 || in.YearOfConvergenceForMargin > in.YearsOfHighGrowth:
		return invalidInput("year of convergence for margin must be within [1,%d], got %d", in.YearsOfHighGrowth, in.YearOfConvergenceForMargin)
	case in.Revenues < 0:
		return invalidInput("revenues must not be negative, got %g", in.Revenues)
	case in.EffectiveTaxRate < 0 || in.EffectiveTaxRate > 1:
		return invalidInput("effective tax rate must be within [0,1], got %g", in.EffectiveTaxRate)
	case in.MarginalTaxRate < 0 || in.MarginalTaxRate > 1:
		return invalidInput("marginal tax rate must be within [0,1], got %g", in.MarginalTaxRate)
	case in.ProbabilityOfFailure < 0 || in.ProbabilityOfFailure > 1:
		return invalidInput("probability of failure must be within [0,1], got %g", in.ProbabilityOfFailure)
	case in.SalesToCapitalRatioEarly <= 0 || in.SalesToCapitalRatioSteady <= 0:
		return invalidInput("sales-to-capital ratios must be positive, got %g and %g", in.SalesToCapitalRatioEarly, in.SalesToCapitalRatioSteady)
	}
	switch in.DistressProceeds {
	case "", DistressFireSale, DistressBookCapital:
	default:
		return invalidInput("unknown distress proceeds basis %q", in.DistressProceeds)
	}
	return nil
}

// capitalStructure maps the valuation inputs onto the cost-of-capital inputs,
// taxed at the marginal rate and priced with the given equity risk premium.
func (in Inputs) capitalStructure(erp float64) CapitalStructureInputs {
	return CapitalStructureInputs{
		InterestExpense:   in.InterestExpense,
		PreTaxCostOfDebt:  in.PreTaxCostOfDebt,
		AverageMaturity:   in.AverageMaturity,
		BookValueOfDebt:   in.BookValueOfDebt,
		SharesOutstanding: in.SharesOutstanding,
		CurrentPrice:      in.CurrentPrice,
		UnleveredBeta:     in.UnleveredBeta,
		TaxRate:           in.MarginalTaxRate,
		RiskFreeRate:      in.RiskFreeRate,
		EquityRiskPremium: erp,
	}
}

// nolLedger carries operating losses forward against later taxable income.
type nolLedger struct {
	balance float64
}

// apply books the row's operating income against the ledger and fills the
// row's tax and NOL cells.
func (l *nolLedger) apply(row *ProjectionRow) {
	income := row.OperatingIncome
	if income < 0 {
		row.NOL = -income * nolCarryforwardShare
		l.balance += row.NOL
	} else if income > 0 {
		used := min(l.balance, income)
		row.NOLUtilized = used
		l.balance -= used
		row.Taxes = (income - used) * row.TaxRate
	}
	row.NOLCumulative = l.balance
}

func ptr(v float64) *float64 { return &v }

package valuation

// RDAdjustment is the effect of capitalizing research spend instead of
// expensing it.
type RDAdjustment struct {
	// Adjustment is added to reported operating income. It is this year's
	// outlay minus the amortization of prior years' capitalized R&D.
	Adjustment float64 `json:"adjustment"`
	// UnamortizedAmount is the research asset still on the books.
	UnamortizedAmount float64 `json:"unamortized_amount"`
}

// CapitalizeRD converts a history of R&D outlays (oldest first, current year
// last) into an operating-income adjustment and the unamortized research asset.
// Each outlay is amortized straight-line over len(expenses)-1 years.
func CapitalizeRD(expenses []float64) (RDAdjustment, error) {
	if len(expenses) < 2 {
		return RDAdjustment{}, invalidInput("r&d history needs at least 2 years, got %d", len(expenses))
	}
	for i, e := range expenses {
		if e < 0 {
			return RDAdjustment{}, invalidInput("r&d expense at index %d is negative (%g)", i, e)
		}
	}

	life := float64(len(expenses) - 1)
	current := len(expenses) - 1

	var unamortized, amortization float64
	for i, outlay := range expenses {
		age := float64(current - i)
		unamortized += outlay * (1 - age/life)
		if i != current {
			amortization += outlay / life
		}
	}

	return RDAdjustment{
		Adjustment:        expenses[current] - amortization,
		UnamortizedAmount: unamortized,
	}, nil
}

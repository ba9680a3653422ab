package fixtures

import (
	"intrinsic_valuation/pkg/core/valuation"
)

// CostOfCapitalOutcome is an evaluated cost-of-capital case.
type CostOfCapitalOutcome struct {
	CostOfCapitalCase
	Output *valuation.CostOfCapitalResult `json:"output"`
	Error  string                         `json:"error,omitempty"`
}

// RDOutcome is an evaluated R&D case.
type RDOutcome struct {
	RDCase
	Output *valuation.RDAdjustment `json:"output"`
	Error  string                  `json:"error,omitempty"`
}

// DCFOutcome is an evaluated valuation case.
type DCFOutcome struct {
	DCFCase
	Output *valuation.Result `json:"output"`
	Error  string            `json:"error,omitempty"`
}

// Document is the full set of evaluated cases, keyed the way the generator
// tool writes them to disk.
type Document struct {
	CostOfCapital []CostOfCapitalOutcome `json:"calc_cost_of_capital"`
	RDAdjustment  []RDOutcome            `json:"r_and_d_adjustment"`
	DCF           []DCFOutcome           `json:"dcf"`
}

// Generate evaluates every case. Case failures are recorded on the outcome
// rather than aborting the run.
func Generate() Document {
	var doc Document

	for _, c := range CostOfCapitalCases() {
		out := CostOfCapitalOutcome{CostOfCapitalCase: c}
		if res, err := valuation.EstimateCostOfCapital(c.Inputs); err != nil {
			out.Error = err.Error()
		} else {
			out.Output = &res
		}
		doc.CostOfCapital = append(doc.CostOfCapital, out)
	}

	for _, c := range RDCases() {
		out := RDOutcome{RDCase: c}
		if res, err := valuation.CapitalizeRD(c.Expenses); err != nil {
			out.Error = err.Error()
		} else {
			out.Output = &res
		}
		doc.RDAdjustment = append(doc.RDAdjustment, out)
	}

	for _, c := range DCFCases() {
		out := DCFOutcome{DCFCase: c}
		if res, err := valuation.Value(c.Inputs); err != nil {
			out.Error = err.Error()
		} else {
			out.Output = &res
		}
		doc.DCF = append(doc.DCF, out)
	}

	return doc
}

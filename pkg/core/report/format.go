package report

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const notApplicable = "n/a"

var million = decimal.NewFromInt(1_000_000)

// formatter renders amounts in one currency.
type formatter struct {
	currency *money.Currency
	factor   decimal.Decimal
}

func newFormatter(code string) (formatter, error) {
	cur := money.GetCurrency(code)
	if cur == nil {
		return formatter{}, fmt.Errorf("unknown currency %q", code)
	}
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	return formatter{currency: cur, factor: factor}, nil
}

// amount formats v in major units, e.g. $1,234.56.
func (f formatter) amount(v float64) string {
	minor := decimal.NewFromFloat(v).Mul(f.factor).Round(0)
	return money.New(minor.IntPart(), f.currency.Code).Display()
}

// millions formats v scaled to millions of major units.
func (f formatter) millions(v float64) string {
	return f.amount(decimal.NewFromFloat(v).Div(million).InexactFloat64())
}

func percent(v float64) string {
	return decimal.NewFromFloat(v).Shift(2).StringFixed(2) + "%"
}

func ratio(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func optPercent(v *float64) string {
	if v == nil {
		return notApplicable
	}
	return percent(*v)
}

func optRatio(v *float64, places int32) string {
	if v == nil {
		return notApplicable
	}
	return ratio(*v, places)
}

func (f formatter) optMillions(v *float64) string {
	if v == nil {
		return notApplicable
	}
	return f.millions(*v)
}

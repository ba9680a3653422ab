package report

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intrinsic_valuation/pkg/core/valuation"
	"intrinsic_valuation/pkg/core/valuation/fixtures"
)

func baselineResult(t *testing.T) valuation.Result {
	t.Helper()
	res, err := valuation.Value(fixtures.BaseInputs())
	require.NoError(t, err)
	return res
}

func TestFormatter(t *testing.T) {
	f, err := newFormatter("USD")
	require.NoError(t, err)

	assert.Equal(t, "$1,234.57", f.amount(1234.567))
	assert.Equal(t, "-$12.00", f.amount(-12))
	assert.Equal(t, "$18,400.00", f.millions(18_400_000_000))
	assert.Equal(t, "9.26%", percent(0.09261))
	assert.Equal(t, "n/a", optPercent(nil))

	_, err = newFormatter("XXX1")
	assert.Error(t, err)
}

func TestMarkdown(t *testing.T) {
	res := baselineResult(t)

	out, err := Markdown(res, Options{Title: "Example Corp (EXM)"})
	require.NoError(t, err)

	f, _ := newFormatter("USD")
	assert.True(t, strings.HasPrefix(out, "# Valuation: Example Corp (EXM)\n"))
	assert.Contains(t, out, "**Value per share:** "+f.amount(res.ValuePerShare))
	assert.Contains(t, out, "## Cost of capital")
	assert.Contains(t, out, "## R&D capitalization")
	assert.Contains(t, out, "## Projection (USD millions)")
	assert.Contains(t, out, "## Equity bridge")
	assert.Contains(t, out, "| Base | base |")
	assert.Contains(t, out, "| Terminal | terminal |")

	section := out[strings.Index(out, "## Projection"):strings.Index(out, "## Equity bridge")]
	var dataRows int
	for _, line := range strings.Split(section, "\n") {
		if strings.HasPrefix(line, "| ") && !strings.HasPrefix(line, "| Year") && !strings.HasPrefix(line, "| ---") {
			dataRows++
		}
	}
	assert.Equal(t, len(res.Projection), dataRows)
}

func TestMarkdown_WithoutRD(t *testing.T) {
	in := fixtures.BaseInputs()
	in.RAndDExpenses = nil
	res, err := valuation.Value(in)
	require.NoError(t, err)

	out, err := Markdown(res, Options{Currency: "EUR"})
	require.NoError(t, err)
	assert.NotContains(t, out, "R&D capitalization")
	assert.Contains(t, out, "## Projection (EUR millions)")
	assert.Contains(t, out, "€")
}

func TestMarkdown_UnknownCurrency(t *testing.T) {
	_, err := Markdown(baselineResult(t), Options{Currency: "ZZZ9"})
	assert.Error(t, err)
}

func TestHTML(t *testing.T) {
	var in valuation.Inputs
	for _, c := range fixtures.DCFCases() {
		if c.Name == "negative_operating_income" {
			in = c.Inputs
		}
	}
	res, err := valuation.Value(in)
	require.NoError(t, err)
	markdown, err := Markdown(res, Options{})
	require.NoError(t, err)

	out, err := HTML(markdown, "Loss <Maker>")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Loss &lt;Maker&gt;</title>")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Find("table.valuation-table").Length())
	assert.Positive(t, doc.Find("td.num").Length())
	assert.Positive(t, doc.Find("td.negative").Length(), "base-year loss should be flagged")
	doc.Find("td.negative").Each(func(_ int, s *goquery.Selection) {
		assert.True(t, strings.HasPrefix(strings.TrimSpace(s.Text()), "-"))
	})
	assert.Zero(t, doc.Find("td.num").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Text() == notApplicable
	}).Length())
}

func TestTerminal(t *testing.T) {
	markdown, err := Markdown(baselineResult(t), Options{})
	require.NoError(t, err)

	out, err := Terminal(markdown, "notty", 200)
	require.NoError(t, err)
	assert.Contains(t, out, "Cost of capital")
	assert.Contains(t, out, "Equity bridge")
}

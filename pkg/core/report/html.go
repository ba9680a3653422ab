package report

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(goldmark.WithExtensions(extension.GFM))

	numericCell = regexp.MustCompile(`^[-+]?\s*[^\sA-Za-z0-9]?-?[\d,]+(\.\d+)?[%M]?$`)
)

const page = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
table.valuation-table { border-collapse: collapse; margin-bottom: 1.5rem; }
table.valuation-table th, table.valuation-table td { border: 1px solid #ddd; padding: 0.25rem 0.5rem; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
td.negative { color: #b00020; }
</style>
</head>
<body>
%s
</body>
</html>
`

// HTML renders a markdown report as a standalone page. Tables get the
// valuation-table class, numeric cells get num and negative ones negative.
func HTML(markdown, title string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", fmt.Errorf("parse rendered html: %w", err)
	}

	doc.Find("table").AddClass("valuation-table")
	doc.Find("td").Each(func(_ int, cell *goquery.Selection) {
		text := strings.TrimSpace(cell.Text())
		if !numericCell.MatchString(text) {
			return
		}
		cell.AddClass("num")
		if strings.HasPrefix(text, "-") {
			cell.AddClass("negative")
		}
	})

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serialize html: %w", err)
	}
	if title == "" {
		title = "Valuation"
	}
	return fmt.Sprintf(page, html.EscapeString(title), body), nil
}

package report

import (
	"fmt"
	"html/template"
	"strings"

	"ttestcalc/domain/hypothesis"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Metric is one labelled value shown as a card
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Real formats a real number the way every result is displayed
func Real(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// Metrics returns the metric cards in display order: statistic row, then critical-value row
func Metrics(res *hypothesis.TestResult) []Metric {
	return []Metric{
		{Label: "Calculated t-statistic", Value: Real(res.TStatistic)},
		{Label: "Degrees of Freedom", Value: fmt.Sprintf("%d", res.DegreesOfFreedom)},
		{Label: "Standard Error", Value: Real(res.StandardError)},
		{Label: "Critical Value (Negative)", Value: Real(res.CriticalNegative)},
		{Label: "Critical Value (Positive)", Value: Real(res.CriticalPositive)},
		{Label: "Decision", Value: string(res.Decision)},
	}
}

// Markdown renders the detailed output: a restatement of the inputs followed by the calculations
func Markdown(req hypothesis.Request, res *hypothesis.TestResult) string {
	var b strings.Builder

	b.WriteString("**Input Parameters:**\n\n")
	fmt.Fprintf(&b, "- Sample 1 size (n1): %d\n", req.SampleA.Size)
	fmt.Fprintf(&b, "- Sample 2 size (n2): %d\n", req.SampleB.Size)
	fmt.Fprintf(&b, "- Sample 1 mean (x̄1): %s\n", Real(req.SampleA.Mean))
	fmt.Fprintf(&b, "- Sample 2 mean (x̄2): %s\n", Real(req.SampleB.Mean))
	fmt.Fprintf(&b, "- Sample 1 standard deviation (s1): %s\n", Real(req.SampleA.StdDev))
	fmt.Fprintf(&b, "- Sample 2 standard deviation (s2): %s\n", Real(req.SampleB.StdDev))
	fmt.Fprintf(&b, "- Test Type: %s (%s)\n", strings.ToUpper(string(res.Direction)), res.Direction.Alternative())

	b.WriteString("\n**Calculations:**\n\n")
	fmt.Fprintf(&b, "- Standard Error (SE): %s\n", Real(res.StandardError))
	fmt.Fprintf(&b, "- Calculated t-statistic: %s\n", Real(res.TStatistic))
	fmt.Fprintf(&b, "- Degrees of Freedom: %d\n", res.DegreesOfFreedom)
	fmt.Fprintf(&b, "- Critical Values (α = %g): [%s, %s]\n", res.Alpha, Real(res.CriticalNegative), Real(res.CriticalPositive))
	fmt.Fprintf(&b, "- **Conclusion:** %s\n", res.Decision)

	return b.String()
}

// HTML converts markdown produced by Markdown into safe HTML for templates.
// Smartypants is left off so numbers are rendered literally.
func HTML(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}

// Text is a plain-text rendering for terminals
func Text(req hypothesis.Request, res *hypothesis.TestResult) string {
	var b strings.Builder
	for _, m := range Metrics(res) {
		fmt.Fprintf(&b, "%-26s %s\n", m.Label+":", m.Value)
	}
	b.WriteString("\n")
	b.WriteString(strings.ReplaceAll(Markdown(req, res), "**", ""))
	return b.String()
}

package presenter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"schoolhub_backend/internals/features/reports/aggregate"
)

const NotAvailable = "N/A"

// FormatCurrency renders "$1,234.50"; negatives as "-$1,234.50".
func FormatCurrency(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

// FormatPercent renders one decimal place.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", aggregate.Round(v, 1))
}

// MetricValue renders a metric as a percentage, "N/A" when not measured.
func MetricValue(m aggregate.Metric) string {
	if !m.Sufficient() {
		return NotAvailable
	}
	return FormatPercent(*m.Value)
}

// ToFloat is the display-boundary conversion for money.
func ToFloat(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

type StatCard struct {
	Title    string `json:"title"`
	Value    string `json:"value"`
	Subtitle string `json:"subtitle,omitempty"`
	Color    string `json:"color,omitempty"`
}

func CountCard(title string, n int64, subtitle string) StatCard {
	return StatCard{Title: title, Value: fmt.Sprintf("%d", n), Subtitle: subtitle}
}

func MoneyCard(title string, d decimal.Decimal, subtitle string) StatCard {
	return StatCard{Title: title, Value: FormatCurrency(d), Subtitle: subtitle}
}

func MetricCard(title string, m aggregate.Metric, subtitle string) StatCard {
	card := StatCard{Title: title, Value: MetricValue(m), Subtitle: subtitle}
	if !m.Sufficient() {
		card.Color = gray.Color
	}
	return card
}

// Bar is one row of a simple proportional bar chart.
type Bar struct {
	Label   string  `json:"label"`
	Count   float64 `json:"count"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color,omitempty"`
}

// ProportionBar is the share of total, 0 when total is 0.
func ProportionBar(label string, count, total float64) Bar {
	return Bar{Label: label, Count: count, Percent: aggregate.Round(aggregate.Percentage(count, total), 1)}
}

// StatusBars builds bars for a status breakdown in the given order, colored from the shared table.
func StatusBars(kind string, order []string, counts map[string]int) []Bar {
	var total int
	for _, n := range counts {
		total += n
	}
	out := make([]Bar, 0, len(order))
	for _, status := range order {
		bar := ProportionBar(StatusStyle(kind, status).Label, float64(counts[status]), float64(total))
		bar.Color = StatusStyle(kind, status).Color
		out = append(out, bar)
	}
	return out
}

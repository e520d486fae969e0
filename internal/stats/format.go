package stats

import (
	"math"

	"github.com/samber/mo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotAvailable is shown in place of a value that cannot be computed
const NotAvailable = "n.d."

var printer = message.NewPrinter(language.Italian)

// Percent returns value/total*100, or 0 when total is empty
func Percent(value, total float64) float64 {
	return Ratio(value*100, total).OrEmpty()
}

// Ratio divides num by den. Empty or non-finite results are absent.
func Ratio(num, den float64) mo.Option[float64] {
	if den == 0 {
		return mo.None[float64]()
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return mo.None[float64]()
	}
	return mo.Some(v)
}

// FormatDecimal renders v with exactly digits decimals and a decimal comma
func FormatDecimal(v float64, digits int) string {
	return printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
		number.NoSeparator(),
	))
}

// FormatOptional renders an optional value, or NotAvailable when it is absent
func FormatOptional(v mo.Option[float64], digits int) string {
	if value, ok := v.Get(); ok {
		return FormatDecimal(value, digits)
	}
	return NotAvailable
}

// Share is a count with its percentage of a total
type Share struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
}

// Shares turns bucket counts into percentages of their sum
func Shares(counts []int, digits int) []Share {
	total := 0
	for _, c := range counts {
		total += c
	}
	shares := make([]Share, len(counts))
	for i, c := range counts {
		p := Percent(float64(c), float64(total))
		shares[i] = Share{Count: c, Percent: p, Label: FormatDecimal(p, digits) + "%"}
	}
	return shares
}

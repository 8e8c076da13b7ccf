package chart

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"
)

var numberPrinter = message.NewPrinter(language.English)

// FormatNumber writes n with thousands separators, e.g. 1234567 -> "1,234,567".
func FormatNumber(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}

// FormatTotal formats a sum that may exceed the int64 range. Sums that fit
// are written like FormatNumber, larger ones in compact form.
func FormatTotal(v float64) string {
	if v < math.MaxInt64 && v > math.MinInt64 {
		return FormatNumber(int64(v))
	}
	return FormatCompact(v)
}

// FormatCompact abbreviates large axis values: 1500000 -> "1.5M", 35000 -> "35k".
func FormatCompact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 1, 64) + "M"
	case abs >= 1e3:
		return strconv.FormatFloat(v/1e3, 'f', 0, 64) + "k"
	default:
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
}

// compactTicks labels the default ticks with FormatCompact.
type compactTicks struct{}

func (compactTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = FormatCompact(ticks[i].Value)
		}
	}
	return ticks
}

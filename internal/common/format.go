package common

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders a currency amount rounded to the nearest whole
// dollar with thousands separators, e.g. 1234567.4 -> "$1,234,567".
func FormatMoney(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "$0"
	}
	rounded := int64(math.Floor(amount + 0.5))
	if rounded < 0 {
		return moneyPrinter.Sprintf("-$%d", -rounded)
	}
	return moneyPrinter.Sprintf("$%d", rounded)
}

// FormatPercent renders a probability in [0,1] as a percentage with one
// decimal place, rounding half-up, e.g. 0.823 -> "82.3%".
func FormatPercent(probability float64) string {
	if math.IsNaN(probability) || math.IsInf(probability, 0) {
		return "0.0%"
	}
	tenths := math.Floor(probability*1000 + 0.5)
	return fmt.Sprintf("%.1f%%", tenths/10)
}

// FormatYears renders a month index as elapsed years with one decimal
// place, rounding half-up, e.g. index 24 -> "2.0".
func FormatYears(monthIndex int) string {
	tenths := math.Floor(float64(monthIndex)/12*10 + 0.5)
	return fmt.Sprintf("%.1f", tenths/10)
}

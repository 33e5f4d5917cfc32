package utils

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency selects the display currency for formatted prices.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyVES Currency = "VES"
)

// esVE drives grouping and decimal separators for the Venezuelan locale.
var esVE = language.MustParse("es-VE")

// ConvertToVes converts a USD price to bolívars at the given BCV rate.
func ConvertToVes(usdPrice, bcvRate float64) float64 {
	return usdPrice * bcvRate
}

// FormatPrice renders a price with two decimals in es-VE conventions,
// prefixed with the currency sign ("$" or "Bs.").
func FormatPrice(price float64, currency Currency) string {
	p := message.NewPrinter(esVE)
	n := p.Sprintf("%v", number.Decimal(price,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
	if currency == CurrencyVES {
		return fmt.Sprintf("Bs.%s", n)
	}
	return fmt.Sprintf("$%s", n)
}

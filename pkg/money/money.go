// Package money formats monetary values the way the storefront displays
// them: Brazilian Real with pt-BR separators ("R$ 1.234,50").
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders a value as BRL currency, always with two decimals.
func FormatBRL(value float64) string {
	return printer.Sprintf("R$ %v", number.Decimal(value,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}

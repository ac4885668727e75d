package extraction

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// currencyHints maps symbols and literal codes found in receipt text onto
// ISO currency codes. The slice is priority-ordered and the first hint whose
// symbol appears in the text wins, so "S$" must be listed before "$".
var currencyHints = []struct {
	symbol string
	code   string
}{
	{"RM", "MYR"},
	{"S$", "SGD"},
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"MYR", "MYR"},
	{"USD", "USD"},
	{"SGD", "SGD"},
	{"EUR", "EUR"},
	{"GBP", "GBP"},
}

// numberPattern matches the first run of digits with optional thousands
// separators and an optional decimal part, e.g. "1,234.50".
var numberPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// resolveMoney turns a raw text detection and an optional structured money
// value into a numeric amount and an optional currency code. The structured
// value always wins over free-text parsing. Unparsable text yields a nil
// amount rather than an error.
func resolveMoney(rawText string, money *MoneyValue) (*float64, string) {
	if money != nil {
		amount := float64(money.Units) + float64(money.Nanos)/1e9
		return &amount, money.CurrencyCode
	}
	return parseMoneyText(rawText)
}

// parseMoneyText extracts an amount and a currency code from free-form
// receipt text like "RM 1,234.50".
func parseMoneyText(text string) (*float64, string) {
	currency := ""
	for _, hint := range currencyHints {
		if strings.Contains(text, hint.symbol) {
			currency = hint.code
			text = strings.Replace(text, hint.symbol, "", 1)
			break
		}
	}

	run := numberPattern.FindString(text)
	if run == "" {
		return nil, currency
	}

	dec, err := decimal.NewFromString(strings.ReplaceAll(run, ",", ""))
	if err != nil {
		return nil, currency
	}
	amount := dec.InexactFloat64()
	return &amount, currency
}

// parseQuantity parses a line-item quantity as a plain decimal number.
// Invalid input yields nil.
func parseQuantity(text string) *float64 {
	dec, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	quantity := dec.InexactFloat64()
	return &quantity
}

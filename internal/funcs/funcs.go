package funcs

import (
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

var TemplateFuncs = template.FuncMap{
	"formatMoney": formatMoney,
	"formatTime":  formatTime,
	"upper":       strings.ToUpper,
	"lower":       strings.ToLower,
}

// formatMoney renders an amount with grouped thousands and two decimal
// places, e.g. 1234500.5 -> "1,234,500.50".
func formatMoney(amount decimal.Decimal) string {
	value, _ := amount.Round(2).Float64()
	return printer.Sprintf("%.2f", value)
}

func formatTime(format string, t time.Time) string {
	return t.Format(format)
}

// Package format renders numbers and dates the way Brazilian operators read them.
package format

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DateLayout     = "02/01/2006"
	DateTimeLayout = "02/01/2006 15:04:05"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

func number(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	sign := ""
	if v < 0 && math.Round(v*math.Pow10(decimals)) != 0 {
		sign = "-"
	}
	return sign + printer.Sprintf(fmt.Sprintf("%%.%df", decimals), math.Abs(v))
}

// BRL formats v as currency with cents: R$ 1.234,56.
func BRL(v float64) string {
	s := number(v, 2)
	if s[0] == '-' {
		return "-R$ " + s[1:]
	}
	return "R$ " + s
}

// Integer formats v rounded with thousands grouping.
func Integer(v float64) string {
	return number(v, 0)
}

// Percent formats a [0,1] ratio with no decimals: 0.75 -> 75%.
func Percent(ratio float64) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 0
	}
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// Date formats t as dd/mm/yyyy.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// DateTime formats t as dd/mm/yyyy hh:mm:ss in loc.
func DateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateTimeLayout)
}

// Orders renders an order count: "3 vendas".
func Orders(n float64) string {
	return Integer(n) + " vendas"
}

// Units renders a unit count: "12 unid.".
func Units(n float64) string {
	return Integer(n) + " unid."
}

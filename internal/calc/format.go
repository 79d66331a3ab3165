package calc

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pkordes/gas-calc/internal/domain"
)

// yenPrinter groups digits the way the ja-JP currency format does.
var yenPrinter = message.NewPrinter(language.Japanese)

// Render formats a Result for display.
func Render(r domain.Result) domain.ResultView {
	return domain.ResultView{
		SumKm:     FormatKm(r.TotalDistanceKm),
		Liters:    FormatLiters(r.TotalLiters),
		Total:     FormatYen(r.TotalCost),
		PerKm:     FormatYenFraction(r.CostPerKm),
		PerPerson: FormatYen(r.CostPerPerson),
		Warning:   r.Warning,
	}
}

// FormatKm formats a distance with one decimal, e.g. "80.0".
func FormatKm(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// FormatLiters formats a fuel volume with two decimals, e.g. "5.00".
func FormatLiters(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatYen rounds to the nearest whole yen and groups digits, e.g. "¥12,800".
func FormatYen(v float64) string {
	if math.Abs(v) >= 1<<62 {
		// Beyond int64; print the digits ungrouped.
		if v < 0 {
			return "-¥" + strconv.FormatFloat(-v, 'f', 0, 64)
		}
		return "¥" + strconv.FormatFloat(v, 'f', 0, 64)
	}
	n := int64(math.Round(v))
	if n < 0 {
		return "-¥" + yenPrinter.Sprintf("%d", -n)
	}
	return "¥" + yenPrinter.Sprintf("%d", n)
}

// FormatYenFraction formats a per-unit price with two decimals, e.g. "¥10.00".
func FormatYenFraction(v float64) string {
	return "¥" + strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatInput renders an optional number the way a committed input field
// shows it: one decimal, or empty when blank. A blank never becomes "0.0".
func FormatInput(v *float64) string {
	if v == nil {
		return ""
	}
	return FormatKm(*v)
}

package format

import (
	"fmt"
	"math"
	"strings"
)

// Currency returns a currency string with a euro sign and thousands separators (e.g., "-€1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 {
		return "-€" + formatted
	}
	return "€" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	formatted := formatPositiveCurrency(math.Abs(amount))
	return sign + formatted
}

// Liters returns a whole-liter volume string with thousands separators and a
// unit suffix (e.g., "4,500 L").
func Liters(volume float64) string {
	formatted := fmt.Sprintf("%.0f", math.Abs(volume))
	formatted = groupThousands(formatted)
	if volume < 0 {
		return "-" + formatted + " L"
	}
	return formatted + " L"
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	return groupThousands(intPart) + "." + decPart
}

func groupThousands(intPart string) string {
	if len(intPart) <= 3 {
		return intPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}

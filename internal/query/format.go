package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TruncateFloat cuts value to the given number of decimal places without
// rounding: 1.239 at 2 places is 1.23, not 1.24.
func TruncateFloat(value float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Trunc(value*shift) / shift
}

// FormatAmount abbreviates a monetary magnitude using Indian numbering
// suffixes: thousands (K), lakhs (L), crores (Cr). Values under a thousand
// render literally. The scaled value is truncated to two decimals before
// formatting.
func FormatAmount(value float64) string {
	switch {
	case value < 1e3:
		return formatFloat(value)
	case value < 1e5:
		return formatFloat(TruncateFloat(value/1e3, 2)) + "K"
	case value < 1e7:
		return formatFloat(TruncateFloat(value/1e5, 2)) + "L"
	default:
		return formatFloat(TruncateFloat(value/1e7, 2)) + "Cr"
	}
}

// RenderValue serializes one scanned column value for prompt embedding.
// Date/time values render as RFC 3339 text; exact-decimal numerics go
// through the magnitude abbreviation; everything else renders literally.
func RenderValue(value any, dbType string) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case []byte:
		return renderText(string(v), dbType)
	case string:
		return renderText(v, dbType)
	case float64:
		if isDecimalType(dbType) {
			return FormatAmount(v)
		}
		return formatFloat(v)
	case float32:
		if isDecimalType(dbType) {
			return FormatAmount(float64(v))
		}
		return formatFloat(float64(v))
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func renderText(text string, dbType string) string {
	if !isDecimalType(dbType) {
		return text
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return text
	}
	return FormatAmount(parsed)
}

func isDecimalType(dbType string) bool {
	switch strings.ToUpper(dbType) {
	case "NUMERIC", "DECIMAL", "MONEY":
		return true
	default:
		return false
	}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

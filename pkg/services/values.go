package services

import (
	"math"
	"time"
)

// Built-in lookup keys.
const (
	LookupKeyString          = "String"
	LookupKeyNumber          = "Number"
	LookupKeyInteger         = "Integer"
	LookupKeyBoolean         = "Boolean"
	LookupKeyDate            = "Date"
	LookupKeyCurrency        = "Currency"
	LookupKeyPercentage      = "Percentage"
	LookupKeyCaseInsensitive = "CaseInsensitive"
	LookupKeyTotalDays       = "TotalDays"
	LookupKeyUppercase       = "Uppercase"
)

// toFloat converts any Go numeric value to float64.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// isInteger reports whether value is a Go integer or a float without fraction.
func isInteger(value any) bool {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return float64(v) == math.Trunc(float64(v))
	case float64:
		return v == math.Trunc(v)
	}
	return false
}

func isIntegerType(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v != nil {
			return *v, true
		}
	}
	return time.Time{}, false
}

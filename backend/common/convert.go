package common

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// NumberOptions configures ConvertToNumber for a given call site.
type NumberOptions struct {
	Required bool
	// Default is returned when the input is absent and not required. A nil
	// Default means "absent stays absent".
	Default *float64
}

// Float64 is a small helper for literal NumberOptions defaults.
func Float64(v float64) *float64 {
	return &v
}

// ConvertToNumber coerces an untyped query or body value into a number.
// Absent input (nil or empty string) yields the configured default, or an
// error when the value is required. Anything that is not numeric fails with an
// error naming the rejected value. No range clamping: negative, zero and
// fractional values pass through untouched.
func ConvertToNumber(value any, opts ...NumberOptions) (*float64, error) {
	var opt NumberOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	switch v := value.(type) {
	case nil:
		return absentNumber(opt)
	case string:
		if v == "" {
			return absentNumber(opt)
		}
		// ParseFloat accepts "NaN" and "Inf" spellings; those are not
		// numbers for pagination or ids and must fail like any other junk.
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil, fmt.Errorf("invalid number format: %s", v)
		}
		return &parsed, nil
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number format: %s", v.String())
		}
		return &parsed, nil
	case float64:
		return &v, nil
	case float32:
		parsed := float64(v)
		return &parsed, nil
	case int:
		parsed := float64(v)
		return &parsed, nil
	case int64:
		parsed := float64(v)
		return &parsed, nil
	default:
		return nil, fmt.Errorf("invalid number format: %v", value)
	}
}

func absentNumber(opt NumberOptions) (*float64, error) {
	if opt.Required {
		return nil, fmt.Errorf("value is required")
	}
	return opt.Default, nil
}

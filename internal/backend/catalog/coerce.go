package catalog

import (
	"math"
	"strconv"
	"strings"
)

// CoerceFloat parses a numeric cell leniently. Anything that is not a number,
// including NaN, reports ok=false and is treated as missing.
func CoerceFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// ParseFloat reports out-of-range values as ±Inf together with an error
		if !math.IsInf(v, 0) {
			return 0, false
		}
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

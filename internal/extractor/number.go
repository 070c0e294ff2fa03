package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Number decodes JSON numbers and numeric strings. Anything else decodes to 0
// without failing the surrounding document.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	v, ok := parseFloat(s)
	if !ok {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

func (n Number) Float64() float64 {
	return float64(n)
}

// Score returns v when it is a finite value in [0, 100], otherwise 0.
func Score(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinScore || v > MaxScore {
		return 0
	}
	return v
}

var leadingNumber = regexp.MustCompile(`^[\s*_"'` + "`" + `]*(-?[0-9]+(?:[.,][0-9]+)?)`)

// ParseLeadingNumber reads the decimal number a labeled value starts with,
// e.g. "85/100" or "72.5 points".
func ParseLeadingNumber(s string) (float64, bool) {
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return parseFloat(strings.Replace(m[1], ",", ".", 1))
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

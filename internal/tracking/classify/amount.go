package classify

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SplitAmountDenom splits a bare coin string like "1000000uaxl" into
// its numeric mantissa and trailing denom suffix.
//
// The split scans from the start of the string and cuts at the first
// non-digit character. This is a deliberate heuristic, not a tokenizer:
// it only handles leading-digit amounts with a single trailing denom,
// which is the only shape observed in delegate/unbond/transfer event
// attributes. Anything else reports ok=false and the caller leaves
// amount and symbol unset.
func SplitAmountDenom(s string) (mantissa, denom string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", false
	}
	cut := len(s)
	for i, r := range s {
		if r < '0' || r > '9' {
			cut = i
			break
		}
	}
	if cut == 0 {
		return "", "", false
	}
	return s[:cut], s[cut:], true
}

// ScaleAmount converts an integer base-unit mantissa into a decimal
// scaled by the asset's registered decimals.
func ScaleAmount(mantissa string, decimals int32) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(mantissa)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d.Shift(-decimals), true
}

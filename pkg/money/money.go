package money

import "github.com/shopspring/decimal"

// Round2 rounds a monetary value to 2 decimal places, half away from zero.
// Going through decimal avoids the float64 binary-representation surprises
// that math.Round(v*100)/100 exhibits around the half-cent boundary.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// RoundPtr2 rounds through a nullable value, preserving nil.
func RoundPtr2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round2(*v)
	return &r
}

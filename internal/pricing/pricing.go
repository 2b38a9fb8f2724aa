// Package pricing computes the price breakdown shown to buyers and quoted in
// order mails. Values are IEEE doubles and are never rounded here; rounding
// happens only when a value is rendered with Format.
package pricing

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Input holds the numeric fields of a listing. Zero means absent.
type Input struct {
	Price          float64
	MRP            float64
	GSTPercent     float64
	DeliveryCharge float64
}

type Breakdown struct {
	MRP            float64 `json:"mrp"`
	Price          float64 `json:"price"`
	GSTPercent     float64 `json:"gstPercent"`
	GSTAmount      float64 `json:"gstAmount"`
	DeliveryCharge float64 `json:"deliveryCharge"`
	Total          float64 `json:"total"`
}

// Compute returns the breakdown for in. Products and services carry no gst,
// delivery or mrp, so their total equals their price.
func Compute(in Input) Breakdown {
	price := finite(in.Price)
	gst := finite(in.GSTPercent)
	delivery := finite(in.DeliveryCharge)

	mrp := finite(in.MRP)
	if mrp == 0 {
		mrp = price
	}

	gstAmount := price * gst / 100

	return Breakdown{
		MRP:            mrp,
		Price:          price,
		GSTPercent:     gst,
		GSTAmount:      gstAmount,
		DeliveryCharge: delivery,
		Total:          price + gstAmount + delivery,
	}
}

// Coerce converts a loosely typed value into a number. Missing, malformed and
// non-finite values become 0.
func Coerce(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case json.Number:
		return parse(string(n))
	case string:
		return parse(n)
	case *float64:
		if n == nil {
			return 0
		}
		return finite(*n)
	default:
		return 0
	}
}

func parse(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

var half = big.NewFloat(0.5)

// Format renders v with two decimals the way Number.prototype.toFixed(2)
// does: the exact binary value is rounded and exact ties go away from zero.
func Format(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	abs := math.Abs(v)
	if abs >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	scaled := new(big.Float).SetPrec(256).SetFloat64(abs)
	scaled.Mul(scaled, big.NewFloat(100))

	n, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(256).Sub(scaled, new(big.Float).SetPrec(256).SetInt(n))
	if frac.Cmp(half) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	digits := n.String()
	for len(digits) < 3 {
		digits = "0" + digits
	}

	out := digits[:len(digits)-2] + "." + digits[len(digits)-2:]
	if v < 0 {
		out = "-" + out
	}
	return out
}

package util

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
)

// decimals is the scaling factor between a Fixed8 integer unit and one
// whole GAS/NEO token: Neo N3 fixes 8 decimal places for both.
const decimals = 100000000

// Fixed8 represents a fixed-point number with a precision of 8 decimal
// digits, the representation GAS amounts (system_fee, network_fee, and
// NEP-17 balances for 8-decimal tokens) use on the wire.
type Fixed8 int64

// Fixed8FromInt64 converts a whole-number token amount to its Fixed8
// representation, i.e. multiplies by 10^8.
func Fixed8FromInt64(val int64) Fixed8 {
	return Fixed8(val * decimals)
}

// Fixed8FromFloat converts a float64 token amount to Fixed8.
func Fixed8FromFloat(val float64) Fixed8 {
	return Fixed8(val * decimals)
}

// Satoshi returns the smallest representable positive Fixed8 value.
func Satoshi() Fixed8 {
	return Fixed8(1)
}

// Fixed8FromString parses a decimal string (integer or with up to 8
// fractional digits) into a Fixed8, preserving the maximum precision the
// Fixed8 representation allows.
func Fixed8FromString(s string) (Fixed8, error) {
	parts := strings.SplitN(s, ".", 2)
	ip, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, err
	}
	sign := int64(1)
	if ip < 0 || (ip == 0 && strings.HasPrefix(parts[0], "-")) {
		sign = -1
	}
	val := ip * decimals
	if len(parts) == 2 {
		frac := parts[1]
		if len(frac) > 8 {
			frac = frac[:8]
		}
		fv, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, err
		}
		for i := len(frac); i < 8; i++ {
			fv *= 10
		}
		val += sign * fv
	}
	return Fixed8(val), nil
}

// Int64Value returns the whole-number part, i.e. divides by 10^8.
func (f Fixed8) Int64Value() int64 {
	return int64(f) / decimals
}

// FloatValue returns f as a float64 token amount.
func (f Fixed8) FloatValue() float64 {
	return float64(f) / decimals
}

// Add returns f+g.
func (f Fixed8) Add(g Fixed8) Fixed8 {
	return f + g
}

// Sub returns f-g.
func (f Fixed8) Sub(g Fixed8) Fixed8 {
	return f - g
}

// String renders f as a decimal string with no trailing fractional
// zeros, matching Neo's canonical GAS-amount textual form.
func (f Fixed8) String() string {
	neg := f < 0
	v := int64(f)
	if neg {
		v = -v
	}
	buf := strconv.FormatInt(v/decimals, 10)
	frac := v % decimals
	if frac != 0 {
		fracStr := strconv.FormatInt(frac, 10)
		fracStr = strings.Repeat("0", 8-len(fracStr)) + fracStr
		fracStr = strings.TrimRight(fracStr, "0")
		buf = buf + "." + fracStr
	}
	if neg {
		buf = "-" + buf
	}
	return buf
}

// MarshalJSON renders f as a JSON number (float), the wire form used by
// most Neo N3 RPC responses for Fixed8 fields.
func (f Fixed8) MarshalJSON() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (f *Fixed8) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		val, err := Fixed8FromString(v)
		if err != nil {
			return err
		}
		*f = val
	case float64:
		*f = Fixed8FromFloat(v)
	default:
		return &json.UnmarshalTypeError{Value: "fixed8"}
	}
	return nil
}

// EncodeBinary writes f as a little-endian i64, the system_fee/
// network_fee wire form from spec.md §6.
func (f Fixed8) EncodeBinary(w *io.BinWriter) {
	w.WriteI64LE(int64(f))
}

// DecodeBinary reads a little-endian i64.
func (f *Fixed8) DecodeBinary(r *io.BinReader) {
	*f = Fixed8(r.ReadI64LE())
}

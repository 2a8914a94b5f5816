package model

import (
	"math"
	"math/big"
	"strings"
)

// CoerceBigInt canonicalizes a loosely encoded numeric value into a
// non-negative big integer. Ledger reads can surface big numbers as native
// integers, decimal strings, hex strings, or scientific notation; fractional
// parts are truncated and anything unparseable collapses to zero. It never
// returns an error.
func CoerceBigInt(value any) *big.Int {
	switch v := value.(type) {
	case nil:
		return big.NewInt(0)
	case *big.Int:
		if v == nil {
			return big.NewInt(0)
		}
		return clampNonNegative(new(big.Int).Set(v))
	case big.Int:
		return clampNonNegative(new(big.Int).Set(&v))
	case int:
		return fromInt64(int64(v))
	case int8:
		return fromInt64(int64(v))
	case int16:
		return fromInt64(int64(v))
	case int32:
		return fromInt64(int64(v))
	case int64:
		return fromInt64(v)
	case uint:
		return new(big.Int).SetUint64(uint64(v))
	case uint8:
		return new(big.Int).SetUint64(uint64(v))
	case uint16:
		return new(big.Int).SetUint64(uint64(v))
	case uint32:
		return new(big.Int).SetUint64(uint64(v))
	case uint64:
		return new(big.Int).SetUint64(v)
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case string:
		return CoerceBigIntString(v)
	default:
		return big.NewInt(0)
	}
}

// CoerceBigIntString canonicalizes a string encoding of a big integer.
// Accepted forms: plain decimal, 0x hex, scientific notation ("1.5e18"),
// and decimal with a fractional suffix (truncated). Stray non-digit
// characters are stripped rather than rejected.
func CoerceBigIntString(value string) *big.Int {
	s := strings.TrimSpace(value)
	if s == "" {
		return big.NewInt(0)
	}

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimLeft(s, "+-")
	if negative {
		return big.NewInt(0)
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if parsed, ok := new(big.Int).SetString(s[2:], 16); ok {
			return parsed
		}
		return big.NewInt(0)
	}

	if parsed, ok := new(big.Int).SetString(s, 10); ok {
		return parsed
	}

	if strings.ContainsAny(s, "eE") {
		if parsed, ok := parseScientific(s); ok {
			return parsed
		}
	}

	// Truncate any fractional part, then strip whatever is left over.
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		s = s[:dot]
	}
	s = stripNonDigits(s)
	if s == "" {
		return big.NewInt(0)
	}
	parsed, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return big.NewInt(0)
	}
	return parsed
}

// CoerceUint64 coerces like CoerceBigInt and clamps the result into uint64.
func CoerceUint64(value any) uint64 {
	parsed := CoerceBigInt(value)
	if !parsed.IsUint64() {
		return math.MaxUint64
	}
	return parsed.Uint64()
}

func parseScientific(s string) (*big.Int, bool) {
	parsed, _, err := big.ParseFloat(s, 10, 256, big.ToZero)
	if err != nil {
		return nil, false
	}
	if parsed.Sign() < 0 {
		return big.NewInt(0), true
	}
	result, _ := parsed.Int(nil)
	return result, true
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func fromInt64(v int64) *big.Int {
	if v < 0 {
		return big.NewInt(0)
	}
	return big.NewInt(v)
}

func fromFloat(v float64) *big.Int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return big.NewInt(0)
	}
	result, _ := big.NewFloat(v).Int(nil)
	return result
}

func clampNonNegative(v *big.Int) *big.Int {
	if v.Sign() < 0 {
		return big.NewInt(0)
	}
	return v
}

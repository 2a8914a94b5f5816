package model

import (
	"math"
	"math/big"
	"testing"
)

func TestCoerceBigIntString(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "0"},
		{"decimal", "1000000000000000000", "1000000000000000000"},
		{"whitespace", "  42 ", "42"},
		{"hex", "0xde0b6b3a7640000", "1000000000000000000"},
		{"hex upper prefix", "0XFF", "255"},
		{"scientific", "1e18", "1000000000000000000"},
		{"scientific fractional", "1.5e18", "1500000000000000000"},
		{"fractional truncated", "123.999", "123"},
		{"negative clamps", "-5", "0"},
		{"junk stripped", "1,000,000", "1000000"},
		{"pure junk", "abc", "0"},
		{"huge", "115792089237316195423570985008687907853269984665640564039457584007913129639935", "115792089237316195423570985008687907853269984665640564039457584007913129639935"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CoerceBigIntString(tc.in)
			if got.String() != tc.want {
				t.Fatalf("CoerceBigIntString(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestCoerceBigInt(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "0"},
		{"nil big", (*big.Int)(nil), "0"},
		{"big", big.NewInt(77), "77"},
		{"negative big clamps", big.NewInt(-77), "0"},
		{"int", 12, "12"},
		{"negative int clamps", -12, "0"},
		{"uint64", uint64(math.MaxUint64), "18446744073709551615"},
		{"float truncates", 3.9, "3"},
		{"nan", math.NaN(), "0"},
		{"string passthrough", "2e3", "2000"},
		{"unsupported type", struct{}{}, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CoerceBigInt(tc.in)
			if got.String() != tc.want {
				t.Fatalf("CoerceBigInt(%v) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestCoerceBigIntDoesNotAliasInput(t *testing.T) {
	in := big.NewInt(5)
	out := CoerceBigInt(in)
	out.SetInt64(99)
	if in.Int64() != 5 {
		t.Fatalf("input mutated: %s", in)
	}
}

func TestCoerceUint64(t *testing.T) {
	if got := CoerceUint64("123"); got != 123 {
		t.Fatalf("CoerceUint64 = %d, want 123", got)
	}
	over := new(big.Int).Lsh(big.NewInt(1), 70)
	if got := CoerceUint64(over); got != math.MaxUint64 {
		t.Fatalf("overflow should clamp to MaxUint64, got %d", got)
	}
	if got := CoerceUint64(nil); got != 0 {
		t.Fatalf("CoerceUint64(nil) = %d, want 0", got)
	}
}

package core

import (
	"errors"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.005", true}, // no rounding
		{" 2.50 ", "2.5", true},
		{".5", "0.5", true},
		{"12345678901234567890.123456789", "12345678901234567890.123456789", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.00", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1e3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(MustParseMoney(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
			}
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoney(7000)
	b := MustParseMoney("200.00")

	if sum := a.Add(b); !sum.Equal(NewMoney(7200)) {
		t.Fatalf("7000+200 = %s, want 7200", sum)
	}
	if diff := a.Sub(b); !diff.Equal(NewMoney(6800)) {
		t.Fatalf("7000-200 = %s, want 6800", diff)
	}
	if a.Cmp(b) != 1 || b.Cmp(a) != -1 || a.Cmp(NewMoney(7000)) != 0 {
		t.Fatalf("unexpected ordering between %s and %s", a, b)
	}
	if !a.GreaterThan(b) {
		t.Fatalf("expected %s > %s", a, b)
	}

	// 0.1 + 0.2 must be exact
	if got := MustParseMoney("0.1").Add(MustParseMoney("0.2")); !got.Equal(MustParseMoney("0.3")) {
		t.Fatalf("0.1+0.2 = %s, want 0.3", got)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := NewMoney(1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Zero().Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{}).Validate(); err == nil {
		t.Fatalf("expected error for zero value")
	}
	if err := Zero().Sub(NewMoney(5)).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}
	if !(Money{}).IsZero() {
		t.Fatalf("zero value Money should be zero")
	}
}

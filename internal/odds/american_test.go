package odds

import (
	"errors"
	"math"
	"testing"
)

func TestDecimalConversion(t *testing.T) {
	tests := []struct {
		name     string
		odds     int
		expected float64
	}{
		{"even money positive", 100, 2.0},
		{"even money negative", -100, 2.0},
		{"standard favorite", -110, 1 + 100.0/110.0},
		{"heavy favorite", -200, 1.5},
		{"underdog", 150, 2.5},
		{"longshot", 900, 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := Decimal(tt.odds)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(dec-tt.expected) > 1e-9 {
				t.Fatalf("Decimal(%d) = %f, want %f", tt.odds, dec, tt.expected)
			}
			if dec <= 1 {
				t.Fatalf("decimal multiplier must exceed 1, got %f", dec)
			}
		})
	}
}

func TestDecimalRejectsInvalidOdds(t *testing.T) {
	for _, o := range []int{0, 1, -1, 50, -50, 99, -99} {
		if _, err := Decimal(o); !errors.Is(err, ErrInvalidAmericanOdds) {
			t.Fatalf("Decimal(%d): expected ErrInvalidAmericanOdds, got %v", o, err)
		}
	}
}

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		odds     int
		expected float64
	}{
		{100, 0.5},
		{-100, 0.5},
		{150, 100.0 / 250.0},
		{-110, 110.0 / 210.0},
		{-200, 200.0 / 300.0},
	}

	for _, tt := range tests {
		p, err := ImpliedProbability(tt.odds)
		if err != nil {
			t.Fatalf("unexpected error for %d: %v", tt.odds, err)
		}
		if math.Abs(p-tt.expected) > 1e-9 {
			t.Fatalf("ImpliedProbability(%d) = %f, want %f", tt.odds, p, tt.expected)
		}
	}
}

func TestValidFloat(t *testing.T) {
	if ValidFloat(math.NaN()) || ValidFloat(math.Inf(1)) {
		t.Fatal("non-finite odds must be invalid")
	}
	if ValidFloat(99) || ValidFloat(-99) {
		t.Fatal("odds inside (-100,100) must be invalid")
	}
	if !ValidFloat(-110) || !ValidFloat(100) {
		t.Fatal("valid american odds rejected")
	}
}

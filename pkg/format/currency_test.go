package format

import (
	"testing"

	"github.com/iwvelando/savings-forecast/pkg/currency"
	"github.com/shopspring/decimal"
)

func TestSeparateNumber(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1 000"},
		{1234567, "1 234 567"},
		{-45000, "-45 000"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := SeparateNumber(tt.input); got != tt.expected {
				t.Errorf("SeparateNumber(%d) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		currency currency.Currency
		expected string
	}{
		{"Roubles", "147000", currency.RUB, "147 000 rub."},
		{"Euro rounds half up", "1633.5", currency.EUR, "1 634 €"},
		{"Dollars round down", "1111.111", currency.USD, "1 111 $"},
		{"Negative", "-2.5", currency.RUB, "-2 rub."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Amount(decimal.RequireFromString(tt.value), tt.currency)
			if got != tt.expected {
				t.Errorf("Amount(%s, %s) = %q, expected %q", tt.value, tt.currency, got, tt.expected)
			}
		})
	}
}

func TestWhole(t *testing.T) {
	if got := Whole(13000, currency.RUB); got != "13 000 rub." {
		t.Errorf("Whole() = %q, expected %q", got, "13 000 rub.")
	}
}

func TestFraction(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"164.38", "164.38"},
		{"1234.5", "1 234.50"},
		{"0", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := Fraction(decimal.RequireFromString(tt.value)); got != tt.expected {
				t.Errorf("Fraction(%s) = %q, expected %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(56); got != "56%" {
		t.Errorf("Percent(56) = %q, expected %q", got, "56%")
	}
}

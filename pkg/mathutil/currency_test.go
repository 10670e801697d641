package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round up", -1.235, -1.24},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Very small negative", -0.001, 0.00},
		{"Exactly one cent", 0.01, 0.01},
		{"Nearly two cents", 0.019, 0.02},
		{"Large negative", -12345.678, -12345.68},
		{"Binary midpoint", 2.675, 2.68},
		{"Binary midpoint negative", -1.005, -1.01},
		{"Carries into billions", 999999999.999, 1000000000.00},
		{"Sub-cent", 0.0001, 0.00},
		{"Final schedule balance", 1.5543122344752192e-10, 0.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Very small positive", 0.001, true},
		{"Very small negative", -0.001, true},
		{"Just above tolerance", 0.02, false},
		{"Just below negative tolerance", -0.02, false},
		{"Exactly tolerance", 0.01, true},
		{"Exactly negative tolerance", -0.01, true},
		{"Large positive", 100.0, false},
		{"Large negative", -100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsZero(tt.input)
			if result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCents(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"EMI", 1187.0183128, "1187.02"},
		{"Midpoint", 0.125, "0.13"},
		{"Negative zero", -0.001, "0.00"},
		{"NaN", math.NaN(), "0.00"},
		{"Infinity", math.Inf(1), "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Cents(tt.input).StringFixed(2)
			if result != tt.expected {
				t.Errorf("Cents(%v) = %s, expected %s", tt.input, result, tt.expected)
			}
		})
	}
}

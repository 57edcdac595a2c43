package tools

import (
	"strings"
	"testing"
)

func TestCalculator_Basic(t *testing.T) {
	calc := NewCalculatorTool()

	cases := []struct {
		expr string
		want string
	}{
		{"25 * 4", "Result: 100"},
		{"2 + 3 * 4", "Result: 14"},
		{"(2 + 3) * 4", "Result: 20"},
		{"10 / 4", "Result: 2.5"},
		{"-5 + 3", "Result: -2"},
		{"1.5 * 2", "Result: 3"},
	}

	for _, tc := range cases {
		if got := calc.Execute(tc.expr); got != tc.want {
			t.Errorf("Execute(%q) = %q, want %q", tc.expr, got, tc.want)
		}
	}
}

func TestCalculator_InvalidCharacters(t *testing.T) {
	calc := NewCalculatorTool()

	got := calc.Execute("import os")
	if got != "Error: Invalid characters in expression." {
		t.Errorf("Execute = %q, want invalid-characters error", got)
	}
}

func TestCalculator_Malformed(t *testing.T) {
	calc := NewCalculatorTool()

	for _, expr := range []string{"2 +", "(1 + 2", "1 / 0", ""} {
		got := calc.Execute(expr)
		if !strings.HasPrefix(got, "Error") {
			t.Errorf("Execute(%q) = %q, want error observation", expr, got)
		}
	}
}

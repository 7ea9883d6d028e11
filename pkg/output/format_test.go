package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iwvelando/savings-forecast/internal/config"
	"github.com/iwvelando/savings-forecast/internal/forecast"
)

func newForecast(t *testing.T, savings config.SavingsConfig) forecast.Forecast {
	t.Helper()
	conf := config.Configuration{
		Rates:    config.RatesConfig{USD: 90, EUR: 100},
		Savings:  savings,
		Incomes:  []config.Category{{ID: "1", Title: "Salary", Amount: 1000}},
		Expenses: []config.Category{{ID: "1", Title: "Rent", Amount: 400}},
	}
	f, err := forecast.GetForecast(nil, conf)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	return f
}

func TestPrettyFormat(t *testing.T) {
	f := newForecast(t, config.SavingsConfig{FreeMoney: 10000})

	var buf bytes.Buffer
	PrettyFormat(&buf, f)
	output := buf.String()

	expected := []string{
		"--- Savings forecast (Rubles) ---",
		"Free money: 10 000 rub.",
		"Income: 1 000 rub. | Expense: 400 rub. | spare: 600 rub.",
		"Category | Amount | Share | Per hour | Per day | Per year",
		"Salary | 1 000 rub. | 100% | 1.37 | 32.9 | 12,000",
		"Rent | 400 rub. | 100% |",
		"    0 | 10 000 rub.",
		"   12 | 17 200 rub.",
		"In six months: 13 600 rub.",
		"In a year: 17 200 rub. (no-deposit)",
	}
	for _, fragment := range expected {
		if !strings.Contains(output, fragment) {
			t.Errorf("PrettyFormat output missing %q\n%s", fragment, output)
		}
	}
	if strings.Contains(output, "To the deposit") {
		t.Errorf("PrettyFormat should not show the allocation without a deposit")
	}
	if strings.Contains(output, "Tip:") {
		t.Errorf("PrettyFormat should not show a tip without a deposit")
	}
}

func TestPrettyFormatDepositTips(t *testing.T) {
	tests := []struct {
		name       string
		allocation float64
		expected   []string
		absent     []string
	}{
		{
			name:       "Nothing deposited",
			allocation: 0,
			expected:   []string{"To the deposit: 0%", "Tip: Everything stays outside the deposit"},
		},
		{
			name:       "Everything deposited",
			allocation: 1,
			expected:   []string{"To the deposit: 100%", "Tip: Everything goes to the deposit"},
		},
		{
			name:       "Split",
			allocation: 0.3,
			expected:   []string{"To the deposit: 30%"},
			absent:     []string{"Tip:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newForecast(t, config.SavingsConfig{
				FreeMoney:         1000,
				AnnualPercentRate: 12,
				Deposit:           true,
				Allocation:        tt.allocation,
			})

			var buf bytes.Buffer
			PrettyFormat(&buf, f)
			output := buf.String()

			for _, fragment := range tt.expected {
				if !strings.Contains(output, fragment) {
					t.Errorf("PrettyFormat output missing %q\n%s", fragment, output)
				}
			}
			for _, fragment := range tt.absent {
				if strings.Contains(output, fragment) {
					t.Errorf("PrettyFormat output unexpectedly contains %q", fragment)
				}
			}
		})
	}
}

func TestPrettyFormatEmptyBreakdown(t *testing.T) {
	f, err := forecast.GetForecast(nil, config.Configuration{Rates: config.RatesConfig{USD: 90, EUR: 100}})
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}

	var buf bytes.Buffer
	PrettyFormat(&buf, f)
	if !strings.Contains(buf.String(), "Incomes\n(none)") {
		t.Errorf("PrettyFormat should mark an empty breakdown, got\n%s", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	tests := []struct {
		name     string
		savings  config.SavingsConfig
		header   string
		first    string
		last     string
		rowCount int
	}{
		{
			name:     "Linear growth",
			savings:  config.SavingsConfig{FreeMoney: 10000},
			header:   "month,balance (RUB)",
			first:    "0,10000.00",
			last:     "12,17200.00",
			rowCount: 14,
		},
		{
			name:     "Compounding adds the deposit column",
			savings:  config.SavingsConfig{FreeMoney: 10000, Deposit: true, Capitalization: true, Allocation: 1},
			header:   "month,balance (RUB),deposit (RUB)",
			first:    "0,10000.00,10000.00",
			rowCount: 14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newForecast(t, tt.savings)
			out, err := CsvString(f)
			if err != nil {
				t.Fatalf("CsvString() error = %v", err)
			}

			lines := strings.Split(strings.TrimSpace(out), "\n")
			if len(lines) != tt.rowCount {
				t.Fatalf("CsvString() produced %d lines, expected %d", len(lines), tt.rowCount)
			}
			if lines[0] != tt.header {
				t.Errorf("header = %q, expected %q", lines[0], tt.header)
			}
			if lines[1] != tt.first {
				t.Errorf("first row = %q, expected %q", lines[1], tt.first)
			}
			if tt.last != "" && lines[len(lines)-1] != tt.last {
				t.Errorf("last row = %q, expected %q", lines[len(lines)-1], tt.last)
			}
		})
	}
}

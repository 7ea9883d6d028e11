package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/iwvelando/savings-forecast/internal/config"
	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/internal/server"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/iwvelando/savings-forecast/pkg/currency"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
	"github.com/iwvelando/savings-forecast/pkg/output"
	"github.com/iwvelando/savings-forecast/pkg/ranking"
	"github.com/iwvelando/savings-forecast/pkg/testutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const fixturePath = "../test_config.yaml"

func loadForecast(t *testing.T) forecast.Forecast {
	t.Helper()
	conf, err := config.LoadConfiguration(fixturePath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Fatalf("fixture should validate cleanly, got %v", warnings)
	}
	result, err := forecast.GetForecast(zap.NewNop(), *conf)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	return result
}

// TestMainIntegrationBaseline checks the figures produced for the fixture
// snapshot exactly as main() computes them.
func TestMainIntegrationBaseline(t *testing.T) {
	result := loadForecast(t)
	proj := result.Projection

	tests := []struct {
		name     string
		got      int64
		expected int64
	}{
		{name: "Start", got: proj.StartDisplay(), expected: 100000},
		{name: "Month 1", got: proj.MonthDisplay(1), expected: 167667},
		{name: "Midpoint", got: proj.MidpointDisplay(), expected: 509447},
		{name: "Final headline", got: proj.FinalDisplay(), expected: 927370},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %d, expected %d", tt.name, tt.got, tt.expected)
			}
		})
	}

	if !proj.SliderEnabled {
		t.Error("compounding deposit should enable the allocation slider")
	}
}

// TestProjectionMatchesFloatReference recomputes the compounding series in
// float64 and compares month by month.
func TestProjectionMatchesFloatReference(t *testing.T) {
	result := loadForecast(t)

	growth := 8.0 / 36500 * 30.41666667
	bucket := 100000.0
	for m := 1; m <= constants.ProjectionMonths; m++ {
		bucket = 33500 + bucket + bucket*growth
		expected := bucket + 33500*float64(m)
		got := result.Projection.Months[m].InexactFloat64()
		if !mathutil.WithinTolerance(got, expected, 0.01) {
			t.Errorf("month %d = %.4f, expected %.4f", m, got, expected)
		}
	}
}

func TestBreakdownInvariants(t *testing.T) {
	result := loadForecast(t)

	for name, ranked := range map[string][]ranking.RankedCategory{"incomes": result.Incomes, "expenses": result.Expenses} {
		t.Run(name, func(t *testing.T) {
			sum := ranking.PercentSum(ranked)
			if sum < 100-int64(len(ranked)) || sum > 100+int64(len(ranked)) {
				t.Errorf("percent sum %d is too far from 100", sum)
			}
			for i := 1; i < len(ranked); i++ {
				if ranked[i].Converted.GreaterThan(ranked[i-1].Converted) {
					t.Errorf("category %s ranked after a smaller one", ranked[i].ID)
				}
			}
		})
	}
}

func TestCurrencySwitchPreservesRawAmounts(t *testing.T) {
	conf, err := config.LoadConfiguration(fixturePath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	var previous forecast.Forecast
	for i, cur := range currency.All {
		result, err := forecast.GetForecast(nil, forecast.Options{Currency: string(cur)}.Apply(*conf))
		if err != nil {
			t.Fatalf("GetForecast(%s) error = %v", cur, err)
		}

		freelance := testutil.FindCategory(result.Incomes, "2")
		if freelance == nil || !freelance.RawAmount.Equal(decimal.NewFromInt(300)) || freelance.Currency != currency.USD {
			t.Errorf("%s: raw freelance income changed: %+v", cur, freelance)
		}

		if i > 0 && previous.Balance.Status != result.Balance.Status {
			t.Errorf("status changed between %s and %s", previous.Currency, cur)
		}
		previous = result
	}
}

func TestRoundTripConversions(t *testing.T) {
	rates, err := currency.NewRates(90, 100)
	if err != nil {
		t.Fatalf("NewRates() error = %v", err)
	}

	amounts := []string{"1", "150", "300", "45000", "120000"}
	for _, from := range currency.All {
		for _, to := range currency.All {
			for _, amount := range amounts {
				start := decimal.RequireFromString(amount)
				there, err := currency.Convert(start, from, to, rates)
				if err != nil {
					t.Fatalf("Convert() error = %v", err)
				}
				back, err := currency.Convert(there, to, from, rates)
				if err != nil {
					t.Fatalf("Convert() error = %v", err)
				}
				if !mathutil.WithinTolerance(back.InexactFloat64(), start.InexactFloat64(), 0.1) {
					t.Errorf("%s %s -> %s -> %s = %s", amount, from, to, from, back)
				}
			}
		}
	}
}

func TestCSVOutputFormat(t *testing.T) {
	out, err := output.CsvString(loadForecast(t))
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != constants.ProjectionMonths+2 {
		t.Fatalf("expected %d lines, got %d", constants.ProjectionMonths+2, len(lines))
	}
	if !strings.HasPrefix(lines[len(lines)-1], "12,927372.") {
		t.Errorf("unexpected final CSV row %q", lines[len(lines)-1])
	}
}

func TestPrettyOutputFormat(t *testing.T) {
	var buf bytes.Buffer
	output.PrettyFormat(&buf, loadForecast(t))
	out := buf.String()

	for _, fragment := range []string{
		"Income: 147 000 rub. | Expense: 80 000 rub. | spare: 67 000 rub.",
		"In six months: 509 447 rub.",
		"In a year: 927 370 rub. (compounding)",
		"To the deposit: 50% of the monthly spare money",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("pretty output missing %q\n%s", fragment, out)
		}
	}
}

func TestServerEndToEnd(t *testing.T) {
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	var snapshot map[string]interface{}
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}

	srv := httptest.NewServer(server.NewHandler(zap.NewNop(), nil, "integration"))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/forecast", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/forecast error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(server.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}

	var decoded struct {
		Projection struct {
			Final    int64 `json:"final"`
			Midpoint int64 `json:"midpoint"`
		} `json:"projection"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Projection.Final != 927370 || decoded.Projection.Midpoint != 509447 {
		t.Errorf("unexpected projection %+v", decoded.Projection)
	}

	latest, err := http.Get(srv.URL + "/api/forecast/latest")
	if err != nil {
		t.Fatalf("GET /api/forecast/latest error = %v", err)
	}
	defer latest.Body.Close()
	if latest.StatusCode != http.StatusOK {
		t.Errorf("expected latest forecast to be available, got %d", latest.StatusCode)
	}
}

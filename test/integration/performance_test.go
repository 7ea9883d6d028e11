package integration

import (
	"reflect"
	"testing"
	"time"

	"github.com/iwvelando/savings-forecast/internal/config"
	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/pkg/projection"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TestPerformance checks that a full forecast stays cheap enough to rerun on
// every interaction.
func TestPerformance(t *testing.T) {
	logger := zap.NewNop()

	conf, err := config.LoadConfiguration(fixturePath)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}

	const runs = 200
	start := time.Now()
	for i := 0; i < runs; i++ {
		if _, err := forecast.GetForecast(logger, *conf); err != nil {
			t.Fatalf("GetForecast failed: %v", err)
		}
	}
	elapsed := time.Since(start)

	t.Logf("%d forecasts in %s (%s each)", runs, elapsed, elapsed/runs)
	if elapsed > 5*time.Second {
		t.Errorf("forecasts took too long: %s", elapsed)
	}
}

// TestDataConsistency checks that recomputing the same snapshot yields an
// identical result.
func TestDataConsistency(t *testing.T) {
	conf, err := config.LoadConfiguration(fixturePath)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}

	first, err := forecast.GetForecast(nil, *conf)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := forecast.GetForecast(nil, *conf)
		if err != nil {
			t.Fatalf("GetForecast failed: %v", err)
		}
		if !reflect.DeepEqual(first.Projection.DisplayMonths(), again.Projection.DisplayMonths()) {
			t.Fatalf("run %d produced different months", i)
		}
		for j := range first.Incomes {
			if first.Incomes[j].ID != again.Incomes[j].ID {
				t.Fatalf("run %d ranked incomes differently", i)
			}
		}
	}
}

func BenchmarkGetForecast(b *testing.B) {
	conf, err := config.LoadConfiguration(fixturePath)
	if err != nil {
		b.Fatalf("LoadConfiguration failed: %v", err)
	}
	logger := zap.NewNop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := forecast.GetForecast(logger, *conf); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProject(b *testing.B) {
	in := projection.Input{
		Savings: projection.SavingsState{
			FreeMoney:             decimal.NewFromInt(100000),
			AnnualPercentRate:     decimal.NewFromInt(8),
			DepositEnabled:        true,
			CapitalizationEnabled: true,
		},
		Income:     decimal.NewFromInt(147000),
		Expense:    decimal.NewFromInt(80000),
		Allocation: decimal.RequireFromString("0.5"),
	}

	for i := 0; i < b.N; i++ {
		if _, err := projection.Project(in); err != nil {
			b.Fatal(err)
		}
	}
}

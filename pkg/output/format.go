// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/savings-forecast/internal/forecast"
	"github.com/iwvelando/savings-forecast/pkg/format"
	"github.com/iwvelando/savings-forecast/pkg/projection"
	"github.com/iwvelando/savings-forecast/pkg/ranking"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var tipText = map[projection.AllocationTip]string{
	projection.TipAllKept:      "Everything stays outside the deposit and earns no interest.",
	projection.TipAllDeposited: "Everything goes to the deposit; nothing is left for unexpected expenses.",
}

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, result forecast.Forecast) {
	p := message.NewPrinter(language.English)
	cur := result.Currency

	_, _ = fmt.Fprintf(w, "--- Savings forecast (%s) ---\n", cur.Label())
	_, _ = fmt.Fprintf(w, "Free money: %s\n", format.Amount(result.FreeMoney, cur))
	_, _ = fmt.Fprintf(w, "Income: %s | Expense: %s | %s: %s\n\n",
		format.Amount(result.Balance.Income, cur),
		format.Amount(result.Balance.Expense, cur),
		result.Balance.Status,
		format.Amount(result.Balance.Delta.Abs(), cur),
	)

	writeBreakdown(w, p, "Incomes", result.Incomes, result)
	writeBreakdown(w, p, "Expenses", result.Expenses, result)

	proj := result.Projection
	_, _ = fmt.Fprintf(w, "Month | Balance\n")
	_, _ = fmt.Fprintf(w, "_____ | _______\n")
	for m, balance := range proj.DisplayMonths() {
		_, _ = fmt.Fprintf(w, "%5d | %s\n", m, format.Whole(balance, cur))
	}
	_, _ = fmt.Fprintf(w, "\nIn six months: %s\n", format.Whole(proj.MidpointDisplay(), cur))
	_, _ = fmt.Fprintf(w, "In a year: %s (%s)\n", format.Whole(proj.FinalDisplay(), cur), proj.Branch)
	if proj.SliderEnabled {
		_, _ = p.Fprintf(w, "To the deposit: %.0f%% of the monthly spare money\n", result.Allocation.Shift(2).InexactFloat64())
	}
	if text, ok := tipText[proj.Tip]; ok {
		_, _ = fmt.Fprintf(w, "Tip: %s\n", text)
	}
}

func writeBreakdown(w io.Writer, p *message.Printer, title string, ranked []ranking.RankedCategory, result forecast.Forecast) {
	_, _ = fmt.Fprintf(w, "%s\n", title)
	if len(ranked) == 0 {
		_, _ = fmt.Fprintf(w, "(none)\n\n")
		return
	}
	_, _ = fmt.Fprintf(w, "Category | Amount | Share | Per hour | Per day | Per year\n")
	_, _ = fmt.Fprintf(w, "________ | ______ | _____ | ________ | _______ | ________\n")
	for _, rc := range ranked {
		_, _ = p.Fprintf(w, "%s | %s | %s | %.2f | %.1f | %d\n",
			rc.Title,
			format.Amount(rc.Converted, result.Currency),
			format.Percent(rc.Percent),
			rc.Rates.Hourly.InexactFloat64(),
			rc.Rates.Daily.InexactFloat64(),
			rc.Rates.Yearly.IntPart(),
		)
	}
	_, _ = fmt.Fprintf(w, "\n")
}

// CsvFormat writes the monthly balance series in comma-separated value
// format.
func CsvFormat(w io.Writer, result forecast.Forecast) error {
	cw := csv.NewWriter(w)
	cur := string(result.Currency)

	header := []string{"month", fmt.Sprintf("balance (%s)", cur)}
	withDeposit := len(result.Projection.DepositBucket) > 0
	if withDeposit {
		header = append(header, fmt.Sprintf("deposit (%s)", cur))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for m, balance := range result.Projection.Months {
		row := []string{strconv.Itoa(m), balance.StringFixed(2)}
		if withDeposit {
			row = append(row, result.Projection.DepositBucket[m].StringFixed(2))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// CsvString returns the CsvFormat rendering of result.
func CsvString(result forecast.Forecast) (string, error) {
	var b strings.Builder
	if err := CsvFormat(&b, result); err != nil {
		return "", err
	}
	return b.String(), nil
}

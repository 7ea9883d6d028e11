// Package ranking orders income and expense categories by their converted
// amount and derives the shares used to draw breakdown bars.
package ranking

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/iwvelando/savings-forecast/pkg/currency"
	"github.com/iwvelando/savings-forecast/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Category is a single income or expense line item. Converted is always
// expressed in the currently selected display currency.
type Category struct {
	ID        string
	Title     string
	Icon      string
	RawAmount decimal.Decimal
	Currency  currency.Currency
	Converted decimal.Decimal
}

// RankedCategory is a category together with its share of the total and its
// bar length relative to the largest category.
type RankedCategory struct {
	Category
	Percent     int64
	BarFraction decimal.Decimal
	Rates       Rates
}

// ConvertAll returns a copy of categories with Converted recomputed from
// RawAmount into the display currency. The input map is left untouched.
func ConvertAll(categories map[string]Category, display currency.Currency, rates currency.Rates) (map[string]Category, error) {
	converted := make(map[string]Category, len(categories))
	for id, c := range categories {
		from := c.Currency
		if from == "" {
			from = display
		}
		value, err := currency.Convert(c.RawAmount, from, display, rates)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", id, err)
		}
		c.Converted = value
		converted[id] = c
	}
	return converted, nil
}

// Total sums the converted amounts of all categories.
func Total(categories map[string]Category) decimal.Decimal {
	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(c.Converted)
	}
	return total
}

// Rank returns category ids ordered by converted amount, largest first.
// Equal amounts fall back to ascending id so the order is deterministic.
func Rank(categories map[string]Category) []string {
	ids := make([]string, 0, len(categories))
	for id := range categories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := categories[ids[i]].Converted, categories[ids[j]].Converted
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return lessID(ids[i], ids[j])
	})
	return ids
}

// lessID compares numeric ids numerically and everything else lexically.
// Ids with the same numeric value ("1", "01") are ordered lexically.
func lessID(a, b string) bool {
	ai, errA := strconv.ParseInt(a, 10, 64)
	bi, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		if ai != bi {
			return ai < bi
		}
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

// Breakdown ranks categories and attaches the percent of total, bar fraction
// and per-period rates to each. A zero total yields zero percentages.
func Breakdown(categories map[string]Category) []RankedCategory {
	ids := Rank(categories)
	ranked := make([]RankedCategory, 0, len(ids))
	if len(ids) == 0 {
		return ranked
	}

	total := Total(categories)
	maxAmount := categories[ids[0]].Converted

	for _, id := range ids {
		c := categories[id]
		rc := RankedCategory{
			Category:    c,
			Percent:     mathutil.RoundHalfUp(mathutil.CalculatePercentage(c.Converted, total)).IntPart(),
			BarFraction: decimal.Zero,
			Rates:       RatesFor(c.Converted),
		}
		if !maxAmount.IsZero() {
			rc.BarFraction = c.Converted.Div(maxAmount)
		}
		ranked = append(ranked, rc)
	}
	return ranked
}

// PercentSum adds up the percentages of a breakdown.
func PercentSum(ranked []RankedCategory) int64 {
	var sum int64
	for _, rc := range ranked {
		sum += rc.Percent
	}
	return sum
}

// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/savings-forecast/pkg/ranking"
	"github.com/shopspring/decimal"
)

// FindCategory finds a ranked category by id.
// Returns a pointer to the category if found, nil otherwise.
func FindCategory(ranked []ranking.RankedCategory, id string) *ranking.RankedCategory {
	for i := range ranked {
		if ranked[i].ID == id {
			return &ranked[i]
		}
	}
	return nil
}

// Dec parses a decimal literal and panics on malformed input.
func Dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

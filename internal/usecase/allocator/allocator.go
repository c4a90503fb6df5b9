package allocator

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the number of decimal places of the currency minor unit
const MinorUnitPlaces = 2

// Item is one fund taking part in a split
type Item struct {
	SchemeName string
	Weight     float64 // relative, need not sum to 1
	Rank       int     // 1 = top-ranked
}

// CalculateAllocation splits a total amount across funds in proportion to their weights
// Returns a map of scheme name to allocated amount
// Logic:
//  1. Sort items by Rank (Lower = First)
//  2. Give every item total * weight / sum(weights), truncated to the minor unit
//  3. Assign the leftover minor units to the top-ranked item
//
// Safety: Ensures total allocation equals total amount exactly (no penny lost)
func CalculateAllocation(totalAmount decimal.Decimal, items []Item) (map[string]decimal.Decimal, error) {
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("total amount must be positive")
	}

	if len(items) == 0 {
		return nil, errors.New("items list cannot be empty")
	}

	// Create a copy of items to avoid mutating the original slice
	sortedItems := make([]Item, len(items))
	copy(sortedItems, items)

	// Sort items by Rank (Lower = First)
	sort.SliceStable(sortedItems, func(i, j int) bool {
		return sortedItems[i].Rank < sortedItems[j].Rank
	})

	weightTotal := decimal.Zero
	for _, item := range sortedItems {
		if item.Weight < 0 {
			return nil, errors.New("weight cannot be negative")
		}
		weightTotal = weightTotal.Add(decimal.NewFromFloat(item.Weight))
	}
	if !weightTotal.IsPositive() {
		return nil, errors.New("weights must not all be zero")
	}

	allocation := make(map[string]decimal.Decimal, len(sortedItems))

	// Step 1: Proportional share, truncated so the sum never exceeds the total
	allocatedSoFar := decimal.Zero
	for _, item := range sortedItems {
		if _, dup := allocation[item.SchemeName]; dup {
			return nil, errors.New("duplicate scheme name in allocation")
		}
		amount := totalAmount.
			Mul(decimal.NewFromFloat(item.Weight)).
			Div(weightTotal).
			Truncate(MinorUnitPlaces)
		allocation[item.SchemeName] = amount
		allocatedSoFar = allocatedSoFar.Add(amount)
	}

	// Step 2: Leftover minor units go to the top-ranked item
	top := sortedItems[0].SchemeName
	allocation[top] = allocation[top].Add(totalAmount.Sub(allocatedSoFar))

	// Safety check: Ensure total allocation equals total amount exactly
	totalAllocated := decimal.Zero
	for _, amount := range allocation {
		totalAllocated = totalAllocated.Add(amount)
	}

	if !totalAllocated.Equal(totalAmount) {
		return nil, errors.New("total allocation does not equal total amount")
	}

	return allocation, nil
}

package calculator

import (
	"aprcalc/internal/domain"
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

type AllocationSummary struct {
	Total         decimal.Decimal `json:"total"`
	Allocated     decimal.Decimal `json:"allocated"`
	RoundingDrift decimal.Decimal `json:"roundingDrift"`
	// share-weighted apr of the allocation, 4 decimal places
	BlendedApr  decimal.Decimal `json:"blendedApr"`
	MedianApr   float64         `json:"medianApr"`
	MaxApr      float64         `json:"maxApr"`
	NumSelected int             `json:"numSelected"`
}

// Summarize describes a finished allocation for display. the float
// statistics are informational only and never feed back into shares
func Summarize(
	assets []domain.NormalizedAsset,
	results []domain.AllocationResult,
	total string,
) (*AllocationSummary, error) {
	totalAmount, err := ParseTotal(total)
	if err != nil {
		return nil, err
	}
	aprBySymbol := map[string]decimal.Decimal{}
	for _, a := range assets {
		aprBySymbol[a.Symbol] = a.Apr
	}

	allocated := decimal.Zero
	weighted := decimal.Zero
	aprs := []float64{}
	for _, r := range results {
		apr, ok := aprBySymbol[r.Symbol]
		if !ok {
			return nil, fmt.Errorf("allocation references unknown asset %s", r.Symbol)
		}
		share := decimal.NewFromInt(r.Share)
		allocated = allocated.Add(share)
		weighted = weighted.Add(share.Mul(apr))
		aprs = append(aprs, apr.InexactFloat64())
	}

	blendedApr := decimal.Zero
	if !allocated.IsZero() {
		blendedApr = weighted.DivRound(allocated, 4)
	}

	summary := &AllocationSummary{
		Total:         totalAmount,
		Allocated:     allocated,
		RoundingDrift: allocated.Sub(totalAmount),
		BlendedApr:    blendedApr,
		NumSelected:   len(results),
	}
	// apr statistics stay zero for an empty allocation
	if len(aprs) == 0 {
		return summary, nil
	}

	summary.MedianApr, err = stats.Median(aprs)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate median apr: %w", err)
	}
	summary.MaxApr, err = stats.Max(aprs)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate max apr: %w", err)
	}

	return summary, nil
}

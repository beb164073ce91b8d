package calculator

import (
	"aprcalc/internal/domain"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	maxShare = decimal.NewFromInt(math.MaxInt64)
	minShare = decimal.NewFromInt(math.MinInt64)
	two      = decimal.NewFromInt(2)
)

// ParseTotal reads the free text total amount. an empty total returns
// ErrNoTotal; an unparseable one returns an error wrapping both
// ErrNoTotal and ErrInvalidNumber
func ParseTotal(total string) (decimal.Decimal, error) {
	total = strings.TrimSpace(total)
	if total == "" {
		return decimal.Zero, domain.ErrNoTotal
	}
	d, err := ParseDecimal(total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w: total %q", domain.ErrNoTotal, domain.ErrInvalidNumber, total)
	}
	return d, nil
}

// Allocate splits total across the selected assets in proportion to their
// normalized apr. results follow the order of assets and only include
// selected ones.
//
// share_i = round(total * apr_i / W), rounded half away from zero, where W
// is the apr sum of the selected assets. halfShare_i = floor(share_i / 2)
// is taken from the already rounded share.
func Allocate(
	assets []domain.NormalizedAsset,
	selected domain.SelectionSet,
	total string,
) ([]domain.AllocationResult, error) {
	totalAmount, err := ParseTotal(total)
	if err != nil {
		return nil, err
	}

	weightTotal := decimal.Zero
	for _, a := range assets {
		if selected.Contains(a.Symbol) {
			weightTotal = weightTotal.Add(a.Apr)
		}
	}
	if weightTotal.IsZero() {
		return nil, fmt.Errorf("selected assets have no apr weight: %w", domain.ErrDivisionByZero)
	}

	results := []domain.AllocationResult{}
	for _, a := range assets {
		if !selected.Contains(a.Symbol) {
			continue
		}

		share := totalAmount.Mul(a.Apr).DivRound(weightTotal, 0)
		if share.GreaterThan(maxShare) || share.LessThan(minShare) {
			return nil, fmt.Errorf("share %s for %s: %w", share.String(), a.Symbol, domain.ErrOutOfRange)
		}
		halfShare := share.Div(two).Floor()

		results = append(results, domain.AllocationResult{
			Symbol:    a.Symbol,
			Share:     share.IntPart(),
			HalfShare: halfShare.IntPart(),
		})
	}

	return results, nil
}

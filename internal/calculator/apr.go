package calculator

import (
	"aprcalc/internal/domain"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultAprStep is the quantization granularity for aprs, in
// percentage points
var DefaultAprStep = decimal.RequireFromString("0.25")

// NormalizeApr quantizes a raw apr string down to the nearest multiple of
// step and returns it in the same decimal string form
func NormalizeApr(rawApr string, step decimal.Decimal) (string, error) {
	raw, err := ParseDecimal(rawApr)
	if err != nil {
		return "", err
	}
	normalized, err := NormalizeDecimal(raw, step)
	if err != nil {
		return "", err
	}
	return normalized.String(), nil
}

// NormalizeDecimal computes floor(raw / step) * step. the quotient comes
// from an integer QuoRem so nothing is rounded along the way
func NormalizeDecimal(raw, step decimal.Decimal) (decimal.Decimal, error) {
	if step.IsZero() {
		return decimal.Zero, fmt.Errorf("normalization step is zero: %w", domain.ErrDivisionByZero)
	}
	if step.IsNegative() {
		return decimal.Zero, fmt.Errorf("normalization step %s is negative: %w", step.String(), domain.ErrInvalidNumber)
	}
	if raw.IsNegative() {
		return decimal.Zero, fmt.Errorf("apr %s is negative: %w", raw.String(), domain.ErrInvalidNumber)
	}

	quotient, _ := raw.QuoRem(step, 0)
	return quotient.Mul(step), nil
}

// NormalizeAssets normalizes every asset, keeping input order
func NormalizeAssets(assets []domain.Asset, step decimal.Decimal) ([]domain.NormalizedAsset, error) {
	out := make([]domain.NormalizedAsset, 0, len(assets))
	for _, a := range assets {
		raw, err := ParseDecimal(a.Apr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse apr for %s: %w", a.Symbol, err)
		}
		apr, err := NormalizeDecimal(raw, step)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize apr for %s: %w", a.Symbol, err)
		}
		out = append(out, domain.NormalizedAsset{
			Symbol: a.Symbol,
			RawApr: a.Apr,
			Apr:    apr,
		})
	}
	return out, nil
}

// SortByAprDesc orders assets by raw apr, highest first. ties keep their
// upstream order
func SortByAprDesc(assets []domain.Asset) ([]domain.Asset, error) {
	type assetWithApr struct {
		asset domain.Asset
		apr   decimal.Decimal
	}
	pairs := make([]assetWithApr, 0, len(assets))
	for _, a := range assets {
		apr, err := ParseDecimal(a.Apr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse apr for %s: %w", a.Symbol, err)
		}
		pairs = append(pairs, assetWithApr{asset: a, apr: apr})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].apr.GreaterThan(pairs[j].apr)
	})

	sorted := make([]domain.Asset, 0, len(pairs))
	for _, p := range pairs {
		sorted = append(sorted, p.asset)
	}
	return sorted, nil
}

// limits for parsed numbers. they keep every product inside the int32
// exponent range and bound how far QuoRem has to rescale
const (
	maxExponent = 64
	maxDigits   = 64
)

// ParseDecimal parses s and rejects values outside the exponent and digit
// limits with ErrInvalidNumber
func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q: %w", s, domain.ErrInvalidNumber)
	}
	if err := checkBounds(d); err != nil {
		return decimal.Zero, fmt.Errorf("%q: %w", s, err)
	}
	return d, nil
}

func checkBounds(d decimal.Decimal) error {
	exp := d.Exponent()
	if exp > maxExponent || exp < -maxExponent {
		return fmt.Errorf("exponent %d outside ±%d: %w", exp, maxExponent, domain.ErrInvalidNumber)
	}
	coefficient := d.Coefficient()
	if digits := len(coefficient.Abs(coefficient).String()); digits > maxDigits {
		return fmt.Errorf("%d digits exceeds %d: %w", digits, maxDigits, domain.ErrInvalidNumber)
	}
	return nil
}

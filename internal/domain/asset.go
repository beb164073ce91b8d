package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Asset is a raw record from the upstream yield source. Apr is kept as the
// string the source sent so no precision is lost before normalization.
type Asset struct {
	Symbol string `json:"symbol"`
	Apr    string `json:"apr"`
}

type NormalizedAsset struct {
	Symbol string          `json:"symbol"`
	RawApr string          `json:"rawApr"`
	Apr    decimal.Decimal `json:"apr"`
}

// AllocationResult holds the share of the total assigned to one selected
// asset. HalfShare is floor(Share / 2), taken from the rounded Share.
type AllocationResult struct {
	Symbol    string `json:"symbol"`
	Share     int64  `json:"share"`
	HalfShare int64  `json:"halfShare"`
}

// ImageURL builds the icon url for a symbol. Mirrored assets drop their
// leading "m", so mAAPL resolves to AAPL.png
func ImageURL(baseURL, symbol string) string {
	ticker := strings.Replace(symbol, "m", "", 1)
	return strings.TrimSuffix(baseURL, "/") + "/" + ticker + ".png"
}

// FormatPercent renders a percentage-point apr as a whole percent label
func FormatPercent(apr decimal.Decimal) string {
	return apr.Round(0).String() + "%"
}

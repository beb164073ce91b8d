package service

import (
	"aprcalc/internal/calculator"
	"aprcalc/internal/domain"
	"errors"
	"fmt"
)

type AllocationState string

const (
	AllocationStateOk AllocationState = "ok"
	// no total entered yet
	AllocationStateNoTotal AllocationState = "no_total"
	// total entered but not a number
	AllocationStateInvalidTotal AllocationState = "invalid_total"
	// nothing selected, or every selected apr is zero
	AllocationStateNoWeight AllocationState = "no_weight"
)

type AllocationTableRow struct {
	Symbol    string `json:"symbol" csv:"symbol"`
	Apr       string `json:"apr" csv:"apr"`
	AprLabel  string `json:"aprLabel" csv:"apr_label"`
	ImageURL  string `json:"imageUrl" csv:"-"`
	Selected  bool   `json:"selected" csv:"selected"`
	Share     *int64 `json:"share,omitempty" csv:"share"`
	HalfShare *int64 `json:"halfShare,omitempty" csv:"half_share"`
}

type AllocationTable struct {
	State   AllocationState               `json:"state"`
	Total   string                        `json:"total"`
	Rows    []AllocationTableRow          `json:"rows"`
	Summary *calculator.AllocationSummary `json:"summary,omitempty"`
}

type TableService interface {
	BuildTable(assets []domain.NormalizedAsset, selected domain.SelectionSet, total string) (*AllocationTable, error)
}

type tableServiceHandler struct {
	ImageBaseURL string
}

func NewTableService(imageBaseURL string) TableService {
	return tableServiceHandler{
		ImageBaseURL: imageBaseURL,
	}
}

// BuildTable recomputes the whole table from scratch. every asset gets a
// row in input order; share columns are only filled for selected rows
// when the allocation succeeded
func (h tableServiceHandler) BuildTable(
	assets []domain.NormalizedAsset,
	selected domain.SelectionSet,
	total string,
) (*AllocationTable, error) {
	state := AllocationStateOk
	results, err := calculator.Allocate(assets, selected, total)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidNumber):
		state = AllocationStateInvalidTotal
	case errors.Is(err, domain.ErrNoTotal):
		state = AllocationStateNoTotal
	case errors.Is(err, domain.ErrDivisionByZero):
		state = AllocationStateNoWeight
	default:
		return nil, fmt.Errorf("failed to allocate: %w", err)
	}

	resultBySymbol := map[string]domain.AllocationResult{}
	for _, r := range results {
		resultBySymbol[r.Symbol] = r
	}

	rows := make([]AllocationTableRow, 0, len(assets))
	for _, a := range assets {
		row := AllocationTableRow{
			Symbol:   a.Symbol,
			Apr:      a.Apr.String(),
			AprLabel: domain.FormatPercent(a.Apr),
			ImageURL: domain.ImageURL(h.ImageBaseURL, a.Symbol),
			Selected: selected.Contains(a.Symbol),
		}
		if r, ok := resultBySymbol[a.Symbol]; ok {
			share, halfShare := r.Share, r.HalfShare
			row.Share = &share
			row.HalfShare = &halfShare
		}
		rows = append(rows, row)
	}

	table := &AllocationTable{
		State: state,
		Total: total,
		Rows:  rows,
	}
	if state == AllocationStateOk && len(results) > 0 {
		summary, err := calculator.Summarize(assets, results, total)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize allocation: %w", err)
		}
		table.Summary = summary
	}

	return table, nil
}

package api

import (
	"aprcalc/internal/domain"
	"aprcalc/internal/service"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
)

type allocateRequest struct {
	// nil falls back to the configured default total
	Total *string `json:"total"`
	// nil falls back to the preset selection
	Selected *[]string `json:"selected"`
}

type allocateResponse struct {
	*service.AllocationTable
	Profile *domain.Profile `json:"profile,omitempty"`
}

func (m ApiHandler) allocate(c *gin.Context) {
	var requestBody allocateRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil && !errors.Is(err, io.EOF) {
		returnErrorJsonCode(fmt.Errorf("invalid request body: %w", err), c, 400)
		return
	}

	profile, endProfile := domain.NewProfile()
	defer endProfile()
	ctx := context.WithValue(c, domain.ContextProfileKey, profile)

	total := m.DefaultTotal
	if requestBody.Total != nil {
		total = *requestBody.Total
	}

	table, err := m.buildTable(ctx, total, requestBody.Selected)
	if err != nil {
		returnErrorJsonCode(err, c, statusForError(err))
		return
	}
	// close the profile before it is serialized; the deferred call is a no-op
	endProfile()

	c.JSON(200, allocateResponse{
		AllocationTable: table,
		Profile:         profile,
	})
}

func (m ApiHandler) allocateCsv(c *gin.Context) {
	total := c.DefaultQuery("total", m.DefaultTotal)

	var selected *[]string
	if raw, ok := c.GetQuery("selected"); ok {
		symbols := []string{}
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, s)
			}
		}
		selected = &symbols
	}

	table, err := m.buildTable(c, total, selected)
	if err != nil {
		returnErrorJsonCode(err, c, statusForError(err))
		return
	}

	out, err := gocsv.MarshalBytes(table.Rows)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to write csv: %w", err), c)
		return
	}
	c.Header("X-Allocation-State", string(table.State))
	c.Data(200, "text/csv", out)
}

func (m ApiHandler) buildTable(ctx context.Context, total string, selectedSymbols *[]string) (*service.AllocationTable, error) {
	assets, err := m.AssetService.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", errUpstream{err})
	}

	selected := m.AssetService.DefaultSelection(assets)
	if selectedSymbols != nil {
		selected = domain.NewSelectionSet(*selectedSymbols...)
	}

	endSpan := domain.StartSpan(ctx, "allocate")
	defer endSpan()

	return m.TableService.BuildTable(assets, selected, total)
}

// errUpstream marks failures of the asset source
type errUpstream struct {
	err error
}

func (e errUpstream) Error() string { return e.err.Error() }
func (e errUpstream) Unwrap() error { return e.err }

func statusForError(err error) int {
	var upstream errUpstream
	if errors.As(err, &upstream) {
		return 502
	}
	if errors.Is(err, domain.ErrOutOfRange) {
		return 400
	}
	return 500
}

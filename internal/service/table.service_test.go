package service

import (
	"aprcalc/internal/domain"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testAssets() []domain.NormalizedAsset {
	return []domain.NormalizedAsset{
		{Symbol: "mAAPL", RawApr: "12.1", Apr: decimal.RequireFromString("12")},
		{Symbol: "mBTC", RawApr: "4.2", Apr: decimal.RequireFromString("4")},
		{Symbol: "MIR", RawApr: "1", Apr: decimal.RequireFromString("1")},
	}
}

func TestTableService_BuildTable(t *testing.T) {
	h := NewTableService("https://img.test/images")

	t.Run("fills shares for selected rows only", func(t *testing.T) {
		table, err := h.BuildTable(testAssets(), domain.NewSelectionSet("mAAPL", "mBTC"), "100")
		require.NoError(t, err)
		require.Equal(t, AllocationStateOk, table.State)
		require.Len(t, table.Rows, 3)

		aapl := table.Rows[0]
		require.Equal(t, "mAAPL", aapl.Symbol)
		require.Equal(t, "12%", aapl.AprLabel)
		require.Equal(t, "https://img.test/images/AAPL.png", aapl.ImageURL)
		require.True(t, aapl.Selected)
		require.Equal(t, int64(75), *aapl.Share)
		require.Equal(t, int64(37), *aapl.HalfShare)

		require.Equal(t, int64(25), *table.Rows[1].Share)
		require.Equal(t, int64(12), *table.Rows[1].HalfShare)

		mir := table.Rows[2]
		require.False(t, mir.Selected)
		require.Nil(t, mir.Share)
		require.Nil(t, mir.HalfShare)

		require.NotNil(t, table.Summary)
		require.Equal(t, "100", table.Summary.Allocated.String())
	})

	t.Run("empty total shows aprs only", func(t *testing.T) {
		table, err := h.BuildTable(testAssets(), domain.NewSelectionSet("mAAPL"), "")
		require.NoError(t, err)
		require.Equal(t, AllocationStateNoTotal, table.State)
		for _, row := range table.Rows {
			require.Nil(t, row.Share)
		}
		require.Nil(t, table.Summary)
	})

	t.Run("invalid total", func(t *testing.T) {
		table, err := h.BuildTable(testAssets(), domain.NewSelectionSet("mAAPL"), "1,000")
		require.NoError(t, err)
		require.Equal(t, AllocationStateInvalidTotal, table.State)
		require.Nil(t, table.Rows[0].Share)
	})

	t.Run("extreme exponent total", func(t *testing.T) {
		table, err := h.BuildTable(testAssets(), domain.NewSelectionSet("mAAPL"), "1e-2147483648")
		require.NoError(t, err)
		require.Equal(t, AllocationStateInvalidTotal, table.State)
		require.Nil(t, table.Rows[0].Share)
	})

	t.Run("nothing selected", func(t *testing.T) {
		table, err := h.BuildTable(testAssets(), domain.NewSelectionSet(), "100")
		require.NoError(t, err)
		require.Equal(t, AllocationStateNoWeight, table.State)
		require.Len(t, table.Rows, 3)
	})

	t.Run("overflow is an error", func(t *testing.T) {
		_, err := h.BuildTable(testAssets(), domain.NewSelectionSet("mAAPL"), "1e40")
		require.ErrorIs(t, err, domain.ErrOutOfRange)
	})
}

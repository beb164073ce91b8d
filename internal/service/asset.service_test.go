package service

import (
	"aprcalc/internal/calculator"
	"aprcalc/internal/domain"
	mock_repository "aprcalc/internal/repository/mocks"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAssetService_ListAssets(t *testing.T) {
	t.Run("sorts then normalizes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		assetRepository := mock_repository.NewMockAssetRepository(ctrl)
		ctx := context.Background()

		assetRepository.EXPECT().List(ctx).Return([]domain.Asset{
			{Symbol: "mBTC", Apr: "4.01"},
			{Symbol: "mTSLA", Apr: "31.9"},
			{Symbol: "MIR", Apr: "0.2"},
		}, nil)

		h := NewAssetService(assetRepository, calculator.DefaultAprStep, []string{"MIR", "mTSLA"})
		assets, err := h.ListAssets(ctx)
		require.NoError(t, err)

		got := [][2]string{}
		for _, a := range assets {
			got = append(got, [2]string{a.Symbol, a.Apr.String()})
		}
		require.Equal(t, [][2]string{
			{"mTSLA", "31.75"},
			{"mBTC", "4"},
			{"MIR", "0"},
		}, got)
		require.Equal(t, "31.9", assets[0].RawApr)

		selection := h.DefaultSelection(assets)
		require.Equal(t, []string{"mTSLA", "MIR"}, selection.Symbols(assets))
	})

	t.Run("repository failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		assetRepository := mock_repository.NewMockAssetRepository(ctrl)
		ctx := context.Background()

		assetRepository.EXPECT().List(ctx).Return(nil, fmt.Errorf("timeout"))

		h := NewAssetService(assetRepository, calculator.DefaultAprStep, nil)
		_, err := h.ListAssets(ctx)
		require.ErrorContains(t, err, "timeout")
	})

	t.Run("records a span when profiling", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		assetRepository := mock_repository.NewMockAssetRepository(ctrl)
		profile, endProfile := domain.NewProfile()
		ctx := context.WithValue(context.Background(), domain.ContextProfileKey, profile)

		assetRepository.EXPECT().List(ctx).Return([]domain.Asset{}, nil)

		h := NewAssetService(assetRepository, calculator.DefaultAprStep, nil)
		_, err := h.ListAssets(ctx)
		require.NoError(t, err)
		endProfile()

		require.Len(t, profile.Spans, 1)
		require.Equal(t, "list assets", profile.Spans[0].Name)
	})
}

package repository

import (
	"aprcalc/internal/domain"
	mock_repository "aprcalc/internal/repository/mocks"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCachedAssetRepository(t *testing.T) {
	t.Run("second list is served from cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		inner := mock_repository.NewMockAssetRepository(ctrl)
		ctx := context.Background()

		inner.EXPECT().List(ctx).Return([]domain.Asset{{Symbol: "A", Apr: "1"}}, nil).Times(1)

		repo, err := NewCachedAssetRepository(inner, time.Minute)
		require.NoError(t, err)
		defer repo.Close()

		first, err := repo.List(ctx)
		require.NoError(t, err)
		// mutating a returned list must not leak into the cache
		first[0].Apr = "999"

		second, err := repo.List(ctx)
		require.NoError(t, err)
		require.Equal(t, []domain.Asset{{Symbol: "A", Apr: "1"}}, second)
	})

	t.Run("invalidate refetches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		inner := mock_repository.NewMockAssetRepository(ctrl)
		ctx := context.Background()

		gomock.InOrder(
			inner.EXPECT().List(ctx).Return([]domain.Asset{{Symbol: "A", Apr: "1"}}, nil),
			inner.EXPECT().List(ctx).Return([]domain.Asset{{Symbol: "A", Apr: "2"}}, nil),
		)

		repo, err := NewCachedAssetRepository(inner, time.Minute)
		require.NoError(t, err)
		defer repo.Close()

		_, err = repo.List(ctx)
		require.NoError(t, err)
		repo.Invalidate()

		got, err := repo.List(ctx)
		require.NoError(t, err)
		require.Equal(t, "2", got[0].Apr)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		inner := mock_repository.NewMockAssetRepository(ctrl)
		ctx := context.Background()

		gomock.InOrder(
			inner.EXPECT().List(ctx).Return(nil, fmt.Errorf("upstream down")),
			inner.EXPECT().List(ctx).Return([]domain.Asset{{Symbol: "A", Apr: "1"}}, nil),
		)

		repo, err := NewCachedAssetRepository(inner, time.Minute)
		require.NoError(t, err)
		defer repo.Close()

		_, err = repo.List(ctx)
		require.Error(t, err)

		got, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
	})
}

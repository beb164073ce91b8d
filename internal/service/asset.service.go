package service

import (
	"aprcalc/internal/calculator"
	"aprcalc/internal/domain"
	"aprcalc/internal/logger"
	"aprcalc/internal/repository"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type AssetService interface {
	ListAssets(ctx context.Context) ([]domain.NormalizedAsset, error)
	DefaultSelection(assets []domain.NormalizedAsset) domain.SelectionSet
}

type assetServiceHandler struct {
	AssetRepository repository.AssetRepository
	AprStep         decimal.Decimal
	PresetSymbols   []string
}

func NewAssetService(
	assetRepository repository.AssetRepository,
	aprStep decimal.Decimal,
	presetSymbols []string,
) AssetService {
	return assetServiceHandler{
		AssetRepository: assetRepository,
		AprStep:         aprStep,
		PresetSymbols:   presetSymbols,
	}
}

// ListAssets fetches the upstream list, orders it by apr (highest first)
// and normalizes every apr to the configured step
func (h assetServiceHandler) ListAssets(ctx context.Context) ([]domain.NormalizedAsset, error) {
	endSpan := domain.StartSpan(ctx, "list assets")
	defer endSpan()

	assets, err := h.AssetRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	sorted, err := calculator.SortByAprDesc(assets)
	if err != nil {
		return nil, fmt.Errorf("failed to sort assets: %w", err)
	}

	normalized, err := calculator.NormalizeAssets(sorted, h.AprStep)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize assets: %w", err)
	}

	logger.FromContext(ctx).Debugf("loaded %d assets", len(normalized))

	return normalized, nil
}

func (h assetServiceHandler) DefaultSelection(assets []domain.NormalizedAsset) domain.SelectionSet {
	return domain.DefaultSelection(h.PresetSymbols, assets)
}

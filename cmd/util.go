package cmd

import (
	"aprcalc/api"
	"aprcalc/internal/repository"
	"aprcalc/internal/service"
	"aprcalc/internal/util"
	"fmt"
	"net/http"
)

type Dependencies struct {
	Config       *util.Config
	ApiHandler   *api.ApiHandler
	AssetService service.AssetService
	TableService service.TableService
	assetCache   *repository.CachedAssetRepository
}

func CloseDependencies(deps *Dependencies) {
	if deps.assetCache != nil {
		deps.assetCache.Close()
	}
}

func InitializeDependencies() (*Dependencies, error) {
	cfg, err := util.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	aprStep, err := cfg.AprStepDecimal()
	if err != nil {
		return nil, err
	}

	assetRepository := repository.NewAssetRepository(
		cfg.Source.Endpoint,
		&http.Client{Timeout: cfg.Source.Timeout},
		repository.AssetRepositoryOptions{
			Retries:       cfg.Source.Retries,
			AprIsFraction: cfg.Source.AprIsFraction,
		},
	)
	cachedAssetRepository, err := repository.NewCachedAssetRepository(assetRepository, cfg.Cache.TTL)
	if err != nil {
		return nil, err
	}

	assetService := service.NewAssetService(cachedAssetRepository, aprStep, cfg.Presets)
	tableService := service.NewTableService(cfg.Display.ImageBaseURL)

	apiHandler := &api.ApiHandler{
		AssetService: assetService,
		TableService: tableService,
		AssetCache:   cachedAssetRepository,
		ImageBaseURL: cfg.Display.ImageBaseURL,
		DefaultTotal: cfg.Defaults.Total,
	}

	return &Dependencies{
		Config:       cfg,
		ApiHandler:   apiHandler,
		AssetService: assetService,
		TableService: tableService,
		assetCache:   cachedAssetRepository,
	}, nil
}

package api

import (
	"aprcalc/internal/domain"
	"fmt"

	"github.com/gin-gonic/gin"
)

type assetResponse struct {
	Symbol   string `json:"symbol"`
	RawApr   string `json:"rawApr"`
	Apr      string `json:"apr"`
	AprLabel string `json:"aprLabel"`
	ImageURL string `json:"imageUrl"`
}

type listAssetsResponse struct {
	Assets           []assetResponse `json:"assets"`
	DefaultSelection []string        `json:"defaultSelection"`
	DefaultTotal     string          `json:"defaultTotal"`
}

func (m ApiHandler) listAssets(c *gin.Context) {
	assets, err := m.AssetService.ListAssets(c)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to load assets: %w", err), c, 502)
		return
	}

	out := listAssetsResponse{
		Assets:           []assetResponse{},
		DefaultSelection: m.AssetService.DefaultSelection(assets).Symbols(assets),
		DefaultTotal:     m.DefaultTotal,
	}
	for _, a := range assets {
		out.Assets = append(out.Assets, assetResponse{
			Symbol:   a.Symbol,
			RawApr:   a.RawApr,
			Apr:      a.Apr.String(),
			AprLabel: domain.FormatPercent(a.Apr),
			ImageURL: domain.ImageURL(m.ImageBaseURL, a.Symbol),
		})
	}

	c.JSON(200, out)
}

func (m ApiHandler) refreshAssets(c *gin.Context) {
	if m.AssetCache == nil {
		c.JSON(200, gin.H{"refreshed": false})
		return
	}
	m.AssetCache.Invalidate()
	c.JSON(200, gin.H{"refreshed": true})
}

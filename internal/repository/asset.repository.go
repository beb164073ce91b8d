package repository

import (
	"aprcalc/internal/calculator"
	"aprcalc/internal/domain"
	"aprcalc/internal/logger"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const assetsQuery = `query {
  assets {
    symbol
    statistic {
      apr
    }
  }
}`

const (
	defaultBaseDelay = 500 * time.Millisecond
	maxDelay         = 10 * time.Second
)

type AssetRepository interface {
	List(ctx context.Context) ([]domain.Asset, error)
}

type AssetRepositoryOptions struct {
	Retries       int
	AprIsFraction bool
	// delay before the first retry, doubled on each attempt
	BaseDelay time.Duration
}

type assetRepositoryHandler struct {
	Endpoint   string
	HttpClient *http.Client
	Options    AssetRepositoryOptions
}

func NewAssetRepository(endpoint string, httpClient *http.Client, opts AssetRepositoryOptions) AssetRepository {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	return assetRepositoryHandler{
		Endpoint:   endpoint,
		HttpClient: httpClient,
		Options:    opts,
	}
}

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type assetsResponse struct {
	Data struct {
		Assets []struct {
			Symbol    string `json:"symbol"`
			Statistic *struct {
				// json.Number accepts both "0.12" and 0.12 without going
				// through float64
				Apr json.Number `json:"apr"`
			} `json:"statistic"`
		} `json:"assets"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// retryableError marks failures worth another attempt
type retryableError struct {
	err error
}

func (e retryableError) Error() string { return e.err.Error() }
func (e retryableError) Unwrap() error { return e.err }

func (h assetRepositoryHandler) List(ctx context.Context) ([]domain.Asset, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	for attempt := 0; attempt <= h.Options.Retries; attempt++ {
		if attempt > 0 {
			delay := backoff(h.Options.BaseDelay, attempt-1)
			log.Warnf("asset fetch attempt %d failed, retrying in %s: %v", attempt, delay, lastErr)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("asset fetch cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		assets, err := h.fetch(ctx)
		if err == nil {
			return assets, nil
		}
		lastErr = err

		var retryable retryableError
		if !errors.As(err, &retryable) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("failed to fetch assets after %d attempts: %w", h.Options.Retries+1, lastErr)
}

func (h assetRepositoryHandler) fetch(ctx context.Context) ([]domain.Asset, error) {
	body, err := json.Marshal(graphqlRequest{Query: assetsQuery})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := h.HttpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, retryableError{fmt.Errorf("failed to query assets: %w", err)}
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, retryableError{fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)}
	}

	if response.StatusCode != http.StatusOK {
		err = fmt.Errorf("failed with status code %d: %s", response.StatusCode, string(responseBytes))
		if response.StatusCode >= 500 || response.StatusCode == http.StatusTooManyRequests {
			return nil, retryableError{err}
		}
		return nil, err
	}

	responseJson := assetsResponse{}
	err = json.Unmarshal(responseBytes, &responseJson)
	if err != nil {
		return nil, fmt.Errorf("failed to decode assets response: %w", err)
	}
	if len(responseJson.Errors) > 0 {
		messages := []string{}
		for _, e := range responseJson.Errors {
			messages = append(messages, e.Message)
		}
		return nil, fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))
	}

	return h.toAssets(ctx, responseJson)
}

func (h assetRepositoryHandler) toAssets(ctx context.Context, in assetsResponse) ([]domain.Asset, error) {
	log := logger.FromContext(ctx)
	hundred := decimal.NewFromInt(100)

	seen := map[string]bool{}
	out := []domain.Asset{}
	for _, a := range in.Data.Assets {
		if a.Symbol == "" {
			return nil, fmt.Errorf("upstream returned an asset without a symbol")
		}
		if seen[a.Symbol] {
			return nil, fmt.Errorf("upstream returned duplicate symbol %s", a.Symbol)
		}
		seen[a.Symbol] = true

		if a.Statistic == nil || a.Statistic.Apr == "" {
			log.Warnf("skipping %s: no apr reported", a.Symbol)
			continue
		}

		apr, err := calculator.ParseDecimal(a.Statistic.Apr.String())
		if err != nil {
			return nil, fmt.Errorf("apr for %s: %w", a.Symbol, err)
		}
		if apr.IsNegative() {
			return nil, fmt.Errorf("apr %s for %s is negative: %w", apr.String(), a.Symbol, domain.ErrInvalidNumber)
		}
		if h.Options.AprIsFraction {
			apr = apr.Mul(hundred)
		}

		out = append(out, domain.Asset{
			Symbol: a.Symbol,
			Apr:    apr.String(),
		})
	}

	return out, nil
}

func backoff(base time.Duration, retryCount int) time.Duration {
	if retryCount > 30 {
		return maxDelay
	}
	delay := base * time.Duration(1<<retryCount)
	if delay > maxDelay || delay <= 0 {
		return maxDelay
	}
	return delay
}

package util

import (
	"aprcalc/internal/calculator"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port int `yaml:"port" env:"PORT"`

	Source   SourceConfig   `yaml:"source"`
	Cache    CacheConfig    `yaml:"cache"`
	Presets  []string       `yaml:"presetSymbols" env:"APR_PRESET_SYMBOLS" envSeparator:","`
	Display  DisplayConfig  `yaml:"display"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

type SourceConfig struct {
	Endpoint string        `yaml:"endpoint" env:"APR_ENDPOINT"`
	Timeout  time.Duration `yaml:"timeout" env:"APR_TIMEOUT"`
	Retries  int           `yaml:"retries" env:"APR_RETRIES"`
	// upstream sends aprs as fractions (0.1237); they are shifted to
	// percentage points before normalization
	AprIsFraction bool   `yaml:"aprIsFraction" env:"APR_IS_FRACTION"`
	AprStep       string `yaml:"aprStep" env:"APR_STEP"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" env:"CACHE_TTL"`
}

type DisplayConfig struct {
	ImageBaseURL string `yaml:"imageBaseUrl" env:"APR_IMAGE_BASE_URL"`
}

type DefaultsConfig struct {
	Total string `yaml:"total" env:"APR_DEFAULT_TOTAL"`
}

// DefaultPresetSymbols is used when config does not list presets
var DefaultPresetSymbols = []string{
	"MIR",
	"mAAPL",
	"mABNB",
	"mAMZN",
	"mBTC",
	"mETH",
	"mFB",
	"mGOOGL",
	"mGS",
	"mIAU",
	"mMSFT",
	"mNFLX",
	"mQQQ",
	"mSLV",
	"mTSLA",
	"mUSO",
}

func DefaultConfig() Config {
	return Config{
		Port: 3009,
		Source: SourceConfig{
			Endpoint:      "https://graph.mirror.finance/graphql",
			Timeout:       15 * time.Second,
			Retries:       3,
			AprIsFraction: true,
			AprStep:       "0.25",
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Presets: DefaultPresetSymbols,
		Display: DisplayConfig{
			ImageBaseURL: "https://whitelist.mirror.finance/images",
		},
		Defaults: DefaultsConfig{
			Total: "100000",
		},
	}
}

// AprStepDecimal parses the configured normalization step
func (c Config) AprStepDecimal() (decimal.Decimal, error) {
	step, err := calculator.ParseDecimal(c.Source.AprStep)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid apr step %q: %w", c.Source.AprStep, err)
	}
	if !step.IsPositive() {
		return decimal.Zero, fmt.Errorf("apr step must be positive, got %s", step.String())
	}
	return step, nil
}

func configFile() string {
	if path := os.Getenv("ALPHA_CONFIG"); path != "" {
		return path
	}
	switch strings.ToLower(os.Getenv("ALPHA_ENV")) {
	case "dev":
		return "config-dev.yaml"
	case "test":
		return "config-test.yaml"
	}
	return "config.yaml"
}

// LoadConfig starts from DefaultConfig, applies the yaml file picked by
// ALPHA_ENV (missing file is fine), then environment overrides. a .env
// file in the working directory is loaded first if present
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := DefaultConfig()

	path := configFile()
	f, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	if err == nil {
		err = yaml.Unmarshal(f, &cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	err = env.Parse(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env overrides: %w", err)
	}

	if _, err := cfg.AprStepDecimal(); err != nil {
		return nil, err
	}
	if cfg.Source.Endpoint == "" {
		return nil, fmt.Errorf("source endpoint is required")
	}

	return &cfg, nil
}

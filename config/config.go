package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/DomeLiquid/dsc/core"
	"github.com/fox-one/mixin-sdk-go/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	OracleSourceSim    = "sim"
	OracleSourceMarket = "market"

	defaultFeedDecimals int32 = 8
)

type (
	Config struct {
		Collaterals []CollateralConfig `yaml:"collaterals"`
		// MixinAssets is a JSON file of Mixin safe assets. Collaterals listed in
		// it take their symbol, name and decimals from there.
		MixinAssets string       `yaml:"mixinAssets"`
		Oracle      OracleConfig `yaml:"oracle"`
		Log         LogConfig    `yaml:"log"`

		assets map[string]*mixin.SafeAsset
	}

	CollateralConfig struct {
		AssetId     string `yaml:"assetId"`
		Symbol      string `yaml:"symbol"`
		Decimals    int32  `yaml:"decimals"`
		PriceFeedId string `yaml:"priceFeedId"`

		// InitialPrice seeds the price source, in USD.
		InitialPrice decimal.Decimal `yaml:"initialPrice"`
		// FeedDecimals is the precision of simulated feed answers. Nil means 8.
		FeedDecimals *int32 `yaml:"feedDecimals"`
	}

	OracleConfig struct {
		// Source is sim for a settable feed or market for quotes read through
		// core.MarketPriceFeed. Defaults to sim.
		Source  string        `yaml:"source"`
		Timeout time.Duration `yaml:"timeout"`
	}

	LogConfig struct {
		Level string `yaml:"level"`
	}
)

// Load reads a yaml config. A relative mixinAssets path is resolved against
// the config file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return parse(data, filepath.Dir(path))
}

// Parse reads a yaml config; a relative mixinAssets path is taken as is.
func Parse(data []byte) (*Config, error) {
	return parse(data, "")
}

func parse(data []byte, dir string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	cfg.setDefaults()
	if cfg.MixinAssets != "" {
		path := cfg.MixinAssets
		if dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if err := cfg.loadMixinAssets(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadMixinAssets(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read mixin assets %s", path)
	}
	var assets []*mixin.SafeAsset
	if err := json.Unmarshal(data, &assets); err != nil {
		return errors.Wrapf(err, "parse mixin assets %s", path)
	}

	c.assets = make(map[string]*mixin.SafeAsset, len(assets))
	for _, asset := range assets {
		c.assets[asset.AssetID] = asset
	}
	for i := range c.Collaterals {
		col := &c.Collaterals[i]
		if asset, ok := c.assets[col.AssetId]; ok {
			col.Symbol = asset.Symbol
			col.Decimals = asset.Precision
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Oracle.Timeout <= 0 {
		c.Oracle.Timeout = core.DEFAULT_ORACLE_TIMEOUT
	}
	if c.Oracle.Source == "" {
		c.Oracle.Source = OracleSourceSim
	}
	if c.Log.Level == "" {
		c.Log.Level = zerolog.InfoLevel.String()
	}
}

func (c *Config) Validate() error {
	if len(c.Collaterals) == 0 {
		return errors.New("no collaterals configured")
	}
	for i, col := range c.Collaterals {
		if col.AssetId == "" || col.PriceFeedId == "" {
			return errors.Errorf("collateral %d: assetId and priceFeedId are required", i)
		}
		if col.Decimals < 0 || col.PriceDecimals() < 0 {
			return errors.Errorf("collateral %s: decimals must not be negative", col.AssetId)
		}
		if col.InitialPrice.IsNegative() {
			return errors.Errorf("collateral %s: negative initial price", col.AssetId)
		}
	}
	switch c.Oracle.Source {
	case OracleSourceSim, OracleSourceMarket:
	default:
		return errors.Errorf("unknown oracle source %q", c.Oracle.Source)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(err, "log level %q", c.Log.Level)
	}
	return nil
}

// Registry builds the immutable collateral registry from the configured pairs.
func (c *Config) Registry() (*core.AssetRegistry, error) {
	assets := make([]*core.CollateralAsset, 0, len(c.Collaterals))
	feeds := make([]string, 0, len(c.Collaterals))
	for _, col := range c.Collaterals {
		if asset, ok := c.assets[col.AssetId]; ok {
			assets = append(assets, core.NewCollateralAssetFromMixin(asset, col.PriceFeedId))
		} else {
			assets = append(assets, &core.CollateralAsset{
				AssetId:  col.AssetId,
				Symbol:   col.Symbol,
				Decimals: col.Decimals,
			})
		}
		feeds = append(feeds, col.PriceFeedId)
	}
	return core.NewAssetRegistry(assets, feeds)
}

// PriceDecimals is the precision of simulated feed answers for this collateral.
func (c CollateralConfig) PriceDecimals() int32 {
	if c.FeedDecimals == nil {
		return defaultFeedDecimals
	}
	return *c.FeedDecimals
}

func (c *Config) Logger() zerolog.Logger {
	level, _ := zerolog.ParseLevel(c.Log.Level)
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

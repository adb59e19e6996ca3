// Package config loads the application configuration and wires logging.
// The calculation engine itself takes its tunables as an explicit
// EngineConfig; this package translates file/env configuration into one.
package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/box3check/box3-engine/internal/calculation"
	"github.com/box3check/box3-engine/pkg/money"
)

// Config holds the full application configuration.
type Config struct {
	// CostPerYear is the advisory fee netted off per assessed tax year.
	CostPerYear float64 `yaml:"cost_per_year" mapstructure:"cost_per_year"`

	// FallbackSavingsRate / FallbackTaxRate apply to years missing from
	// the rate tables.
	FallbackSavingsRate float64 `yaml:"fallback_savings_rate" mapstructure:"fallback_savings_rate"`
	FallbackTaxRate     float64 `yaml:"fallback_tax_rate" mapstructure:"fallback_tax_rate"`

	// Allocation bounds what counts as a plausible partner allocation.
	Allocation AllocationConfig `yaml:"allocation" mapstructure:"allocation"`

	// RatesFile optionally points at a YAML file overriding the shipped
	// rate tables per year.
	RatesFile string `yaml:"rates_file" mapstructure:"rates_file"`

	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// AllocationConfig mirrors calculation.AllocationPolicy in plain floats.
type AllocationConfig struct {
	SumTolerance float64 `yaml:"sum_tolerance" mapstructure:"sum_tolerance"`
	MinShare     float64 `yaml:"min_share" mapstructure:"min_share"`
	MaxShare     float64 `yaml:"max_share" mapstructure:"max_share"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads config.yaml from the working directory (optional) and the
// BOX3_* environment, applying defaults for everything else.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BOX3")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("cost_per_year", 250)
	v.SetDefault("fallback_savings_rate", 0.001)
	v.SetDefault("fallback_tax_rate", 0.31)
	v.SetDefault("allocation.sum_tolerance", 5)
	v.SetDefault("allocation.min_share", 5)
	v.SetDefault("allocation.max_share", 95)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// InitLogger builds a zap logger from config and installs it globally.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// ratesFile is the shape of the optional rate-table override file.
type ratesFile struct {
	AverageSavingsRates map[string]float64 `yaml:"average_savings_rates"`
	TaxRates            map[string]float64 `yaml:"tax_rates"`
}

// EngineConfig translates the app config into the engine's tunables,
// starting from the shipped tables and layering per-year overrides from
// the rates file on top.
func (c *Config) EngineConfig() (calculation.EngineConfig, error) {
	engineCfg := calculation.DefaultEngineConfig()

	engineCfg.CostPerYear = money.New(c.CostPerYear)
	engineCfg.FallbackSavingsRate = decimal.NewFromFloat(c.FallbackSavingsRate)
	engineCfg.FallbackTaxRate = decimal.NewFromFloat(c.FallbackTaxRate)
	engineCfg.Allocation = calculation.AllocationPolicy{
		SumTolerance: decimal.NewFromFloat(c.Allocation.SumTolerance),
		MinShare:     decimal.NewFromFloat(c.Allocation.MinShare),
		MaxShare:     decimal.NewFromFloat(c.Allocation.MaxShare),
	}

	if c.RatesFile == "" {
		return engineCfg, nil
	}

	data, err := os.ReadFile(c.RatesFile)
	if err != nil {
		return engineCfg, eris.Wrapf(err, "config: read rates file %s", c.RatesFile)
	}
	var rf ratesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return engineCfg, eris.Wrapf(err, "config: parse rates file %s", c.RatesFile)
	}

	for year, rate := range calculation.RateTableFromFloats(rf.AverageSavingsRates) {
		engineCfg.SavingsRates[year] = rate
	}
	for year, rate := range calculation.RateTableFromFloats(rf.TaxRates) {
		engineCfg.TaxRates[year] = rate
	}
	return engineCfg, nil
}

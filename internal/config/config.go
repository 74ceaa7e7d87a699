// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Binance    BinanceConfig    `mapstructure:"binance"`
	Investment InvestmentConfig `mapstructure:"investment"`
	Trading    TradingConfig    `mapstructure:"trading"`
	Depth      DepthConfig      `mapstructure:"depth"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// BinanceConfig holds exchange endpoint configuration.
type BinanceConfig struct {
	RESTURL        string        `mapstructure:"rest_url"`
	WebSocketURL   string        `mapstructure:"websocket_url"`
	DepthSpeedMs   int           `mapstructure:"depth_speed_ms"`
	RequestsPerMin int           `mapstructure:"requests_per_min"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
}

// InvestmentConfig bounds the brute-force search over trade sizes,
// denominated in the relationship's home asset.
type InvestmentConfig struct {
	Min  float64 `mapstructure:"min"`
	Max  float64 `mapstructure:"max"`
	Step float64 `mapstructure:"step"`
}

// MinDecimal returns the minimum investment as a decimal.
func (c *InvestmentConfig) MinDecimal() decimal.Decimal { return decimal.NewFromFloat(c.Min) }

// MaxDecimal returns the maximum investment as a decimal.
func (c *InvestmentConfig) MaxDecimal() decimal.Decimal { return decimal.NewFromFloat(c.Max) }

// StepDecimal returns the search step as a decimal.
func (c *InvestmentConfig) StepDecimal() decimal.Decimal { return decimal.NewFromFloat(c.Step) }

// TradingConfig holds execution gating configuration.
type TradingConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	ProfitThreshold float64       `mapstructure:"profit_threshold"`
	AgeThreshold    time.Duration `mapstructure:"age_threshold"`
	Whitelist       []string      `mapstructure:"whitelist"`
}

// ProfitThresholdDecimal returns the minimum percent return as a decimal.
func (c *TradingConfig) ProfitThresholdDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.ProfitThreshold)
}

// WhitelistUpper returns the whitelist symbols uppercased.
func (c *TradingConfig) WhitelistUpper() []string {
	out := make([]string, len(c.Whitelist))
	for i, s := range c.Whitelist {
		out[i] = strings.ToUpper(s)
	}
	return out
}

// DepthConfig holds order book cache configuration.
type DepthConfig struct {
	Size int `mapstructure:"size"`
}

// SchedulerConfig holds evaluation cycle configuration.
type SchedulerConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	Workers         int           `mapstructure:"workers"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("TRIARB")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("app.name", "TRIARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "TRIARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "TRIARB_LOG_LEVEL", "LOG_LEVEL")

	v.BindEnv("binance.rest_url", "TRIARB_BINANCE_REST_URL", "BINANCE_REST_URL")
	v.BindEnv("binance.websocket_url", "TRIARB_BINANCE_WS_URL", "BINANCE_WS_URL")

	v.BindEnv("investment.min", "TRIARB_INVESTMENT_MIN")
	v.BindEnv("investment.max", "TRIARB_INVESTMENT_MAX")
	v.BindEnv("investment.step", "TRIARB_INVESTMENT_STEP")

	v.BindEnv("trading.enabled", "TRIARB_TRADING_ENABLED")
	v.BindEnv("trading.profit_threshold", "TRIARB_PROFIT_THRESHOLD")
	v.BindEnv("trading.age_threshold", "TRIARB_AGE_THRESHOLD")
	v.BindEnv("trading.whitelist", "TRIARB_WHITELIST")

	v.BindEnv("telemetry.enabled", "TRIARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "TRIARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "TRIARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "trianglebot")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("binance.rest_url", "https://api.binance.com")
	v.SetDefault("binance.websocket_url", "wss://stream.binance.com:9443")
	v.SetDefault("binance.depth_speed_ms", 100)
	v.SetDefault("binance.requests_per_min", 1200)
	v.SetDefault("binance.initial_backoff", "1s")
	v.SetDefault("binance.max_backoff", "30s")

	v.SetDefault("investment.min", 0.01)
	v.SetDefault("investment.max", 0.15)
	v.SetDefault("investment.step", 0.005)

	v.SetDefault("trading.enabled", false)
	v.SetDefault("trading.profit_threshold", 0.3)
	v.SetDefault("trading.age_threshold", "1s")
	v.SetDefault("trading.whitelist", []string{"BTC", "ETH", "BNB"})

	v.SetDefault("depth.size", 50)

	v.SetDefault("scheduler.interval", "5s")
	v.SetDefault("scheduler.workers", 0) // 0 = GOMAXPROCS
	v.SetDefault("scheduler.refresh_interval", "1m")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "trianglebot")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)
}

// Validate validates the configuration. Violations here are fatal at startup.
func (c *Config) Validate() error {
	if c.Investment.Step <= 0 {
		return fmt.Errorf("investment.step must be positive, got %v", c.Investment.Step)
	}
	if c.Investment.Min <= 0 {
		return fmt.Errorf("investment.min must be positive, got %v", c.Investment.Min)
	}
	if c.Investment.Min > c.Investment.Max {
		return fmt.Errorf("investment.min %v exceeds investment.max %v", c.Investment.Min, c.Investment.Max)
	}
	if len(c.Trading.Whitelist) < 3 {
		return fmt.Errorf("trading.whitelist needs at least 3 symbols to form a triangle, got %d", len(c.Trading.Whitelist))
	}
	if c.Trading.AgeThreshold <= 0 {
		return fmt.Errorf("trading.age_threshold must be positive, got %v", c.Trading.AgeThreshold)
	}
	if c.Depth.Size <= 0 {
		return fmt.Errorf("depth.size must be positive, got %d", c.Depth.Size)
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be positive, got %v", c.Scheduler.Interval)
	}
	if c.Binance.WebSocketURL == "" {
		return fmt.Errorf("binance.websocket_url is required")
	}
	return nil
}

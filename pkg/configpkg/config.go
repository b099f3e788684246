// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress       string        `mapstructure:"SERVER_ADDRESS"`
	Environment         string        `mapstructure:"GO_ENV"`
	InitialBalance      string        `mapstructure:"INITIAL_BALANCE"`
	TransferLatency     time.Duration `mapstructure:"TRANSFER_LATENCY"`
	TransferSuccessRate float64       `mapstructure:"TRANSFER_SUCCESS_RATE"`
	ShutdownTimeout     time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	ReadHeaderTimeout   time.Duration `mapstructure:"READ_HEADER_TIMEOUT"`
	MaxBodyBytes        int64         `mapstructure:"MAX_BODY_BYTES"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":        "0.0.0.0:8080",
	"GO_ENV":                "production",
	"INITIAL_BALANCE":       "10000",
	"TRANSFER_LATENCY":      "1500ms",
	"TRANSFER_SUCCESS_RATE": 0.8,
	"SHUTDOWN_TIMEOUT":      "10s",
	"READ_HEADER_TIMEOUT":   "5s",
	"MAX_BODY_BYTES":        4096,
}

// Load reads configuration from file or environment variables.
// A missing config file is not an error.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	if err := c.Validate(); err != nil {
		return c, err
	}

	return c, nil
}

// Validate checks that the loaded values make sense.
func (c Config) Validate() error {
	if _, err := c.Balance(); err != nil {
		return err
	}

	if c.TransferSuccessRate < 0 || c.TransferSuccessRate > 1 {
		return fmt.Errorf("TRANSFER_SUCCESS_RATE must be within [0, 1], got %v", c.TransferSuccessRate)
	}

	if c.TransferLatency < 0 {
		return fmt.Errorf("TRANSFER_LATENCY must not be negative, got %v", c.TransferLatency)
	}

	if c.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("READ_HEADER_TIMEOUT must be positive, got %v", c.ReadHeaderTimeout)
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %v", c.MaxBodyBytes)
	}

	return nil
}

// Balance returns the initial balance as a decimal.
func (c Config) Balance() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.InitialBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("INITIAL_BALANCE: %w", err)
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("INITIAL_BALANCE must not be negative, got %s", d)
	}

	return d, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Logging     struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		RateLimitRPS    float64       `yaml:"rate_limit_rps"` // 0 disables limiting
	} `yaml:"server"`
	Input struct {
		Source string `yaml:"source"` // "csv" or "clickhouse"
		Path   string `yaml:"path"`   // prediction log file for csv source
	} `yaml:"input"`
	Evaluation struct {
		LongThreshold   float64 `yaml:"long_threshold"`
		ShortThreshold  float64 `yaml:"short_threshold"`
		RegimeHigh      float64 `yaml:"regime_high"`
		CalibrationBins int     `yaml:"calibration_bins"`
	} `yaml:"evaluation"`
	Cache struct {
		ReportTTL time.Duration `yaml:"report_ttl"`
		Redis     struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		Table            string        `yaml:"table"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
}

// Default returns a configuration with all defaults applied and no input
// source set. Callers must fill Input before Validate would pass.
func Default() *Config {
	c := &Config{Environment: "development"}
	c.applyDefaults()
	return c
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("PREDEVAL_INPUT"); v != "" {
		c.Input.Path = v
	}
	if v := os.Getenv("PREDEVAL_SOURCE"); v != "" {
		c.Input.Source = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Input.Source == "" {
		c.Input.Source = "csv"
	}
	if c.Evaluation.LongThreshold == 0 {
		c.Evaluation.LongThreshold = 0.55
	}
	if c.Evaluation.ShortThreshold == 0 {
		c.Evaluation.ShortThreshold = 0.45
	}
	if c.Evaluation.RegimeHigh == 0 {
		c.Evaluation.RegimeHigh = 10
	}
	if c.Evaluation.CalibrationBins == 0 {
		c.Evaluation.CalibrationBins = 10
	}
	if c.Cache.ReportTTL == 0 {
		c.Cache.ReportTTL = 5 * time.Minute
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Input.Source != "csv" && c.Input.Source != "clickhouse" {
		return fmt.Errorf("input.source must be 'csv' or 'clickhouse', got '%s'", c.Input.Source)
	}
	if c.Input.Source == "csv" && c.Input.Path == "" {
		return fmt.Errorf("input.path is required for csv source")
	}
	if c.Input.Source == "clickhouse" {
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for clickhouse source")
		}
		if c.ClickHouse.Table == "" {
			return fmt.Errorf("clickhouse.table is required for clickhouse source")
		}
	}
	if c.Evaluation.ShortThreshold >= c.Evaluation.LongThreshold {
		return fmt.Errorf("evaluation.short_threshold must be below long_threshold")
	}
	return nil
}

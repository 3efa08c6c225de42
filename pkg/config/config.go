package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Refresh struct {
		Interval time.Duration `yaml:"interval"`
	} `yaml:"refresh"`
	HTTPClient struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"http_client"`
	Sources struct {
		Gold24h       string `yaml:"gold_24h"`
		SJC           string `yaml:"sjc"`
		MiHong        string `yaml:"mihong"`
		EGCurrency    string `yaml:"egcurrency"`
		CoinMarketCap string `yaml:"coinmarketcap"`
		CoinGecko     string `yaml:"coingecko"`
		Vietstock     string `yaml:"vietstock"`
	} `yaml:"sources"`
	History struct {
		File             string `yaml:"file"`
		Backend          string `yaml:"backend"` // file or clickhouse
		ChogiaAjax      string `yaml:"chogia_ajax"`
		CoinGeckoChart  string `yaml:"coingecko_chart"`
		VpsHistory      string `yaml:"vps_history"`
		ClickHouseTable string `yaml:"clickhouse_table"`
	} `yaml:"history"`
	Cache struct {
		Backend string        `yaml:"backend"` // file or redis
		Dir     string        `yaml:"dir"`
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		Async        bool          `yaml:"async"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
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

	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv("HISTORY_BACKEND"); v != "" {
		c.History.Backend = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = 10 * time.Minute
	}
	if c.HTTPClient.Timeout == 0 {
		c.HTTPClient.Timeout = 10 * time.Second
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "file"
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = ".cache"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.History.Backend == "" {
		c.History.Backend = "file"
	}
	if c.History.File == "" {
		c.History.File = ".cache/history.json"
	}
	if c.History.ClickHouseTable == "" {
		c.History.ClickHouseTable = "snapshots"
	}
	if c.Sources.Gold24h == "" {
		c.Sources.Gold24h = "https://www.24h.com.vn/gia-vang-hom-nay-c425.html"
	}
	if c.Sources.SJC == "" {
		c.Sources.SJC = "https://sjc.com.vn/gia-vang-online"
	}
	if c.Sources.MiHong == "" {
		c.Sources.MiHong = "https://www.mihong.vn/en/vietnam-gold-pricings"
	}
	if c.Sources.EGCurrency == "" {
		c.Sources.EGCurrency = "https://egcurrency.com/en/currency/USD-to-VND/blackMarket"
	}
	if c.Sources.CoinMarketCap == "" {
		c.Sources.CoinMarketCap = "https://coinmarketcap.com/currencies/bitcoin/btc/vnd/"
	}
	if c.Sources.CoinGecko == "" {
		c.Sources.CoinGecko = "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=vnd"
	}
	if c.Sources.Vietstock == "" {
		c.Sources.Vietstock = "https://banggia.vietstock.vn/bang-gia/vn30"
	}
	if c.History.ChogiaAjax == "" {
		c.History.ChogiaAjax = "https://chogia.vn/wp-admin/admin-ajax.php"
	}
	if c.History.CoinGeckoChart == "" {
		c.History.CoinGeckoChart = "https://api.coingecko.com/api/v3/coins/bitcoin/market_chart?vs_currency=vnd"
	}
	if c.History.VpsHistory == "" {
		c.History.VpsHistory = "https://histdatafeed.vps.com.vn/tradingview/history?symbol=VN30&resolution=1D"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Cache.Backend != "file" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'file' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.History.Backend != "file" && c.History.Backend != "clickhouse" {
		return fmt.Errorf("history.backend must be 'file' or 'clickhouse', got '%s'", c.History.Backend)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Kafka.Enabled && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when kafka is enabled")
	}
	if c.History.Backend == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required for the clickhouse history backend")
	}
	return nil
}

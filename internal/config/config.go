package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PipelineConfig holds the business policy of the lead-time pipeline.
type PipelineConfig struct {
	Brands           []string      `yaml:"brands" envconfig:"BRANDS" validate:"required,min=1,dive,required"`
	ChannelRules     []ChannelRule `yaml:"channel_rules" envconfig:"CHANNEL_RULES" validate:"dive"`
	RequiredColumns  []string      `yaml:"required_columns" envconfig:"REQUIRED_COLUMNS" validate:"required,min=1,dive,required"`
	DateLayouts      []string      `yaml:"date_layouts" envconfig:"DATE_LAYOUTS" validate:"required,min=1,dive,required"`
	ExportDateLayout string        `yaml:"export_date_layout" envconfig:"EXPORT_DATE_LAYOUT" validate:"required"`
	TopN             int           `yaml:"top_n" envconfig:"TOP_N" validate:"gte=1"`
	ContextTopN      int           `yaml:"context_top_n" envconfig:"CONTEXT_TOP_N" validate:"gte=1"`
	TrendWindow      int           `yaml:"trend_window" envconfig:"TREND_WINDOW" validate:"gte=1"`
	CacheEntries     int           `yaml:"cache_entries" envconfig:"CACHE_ENTRIES" validate:"gte=0"`
}

// ChannelRule maps a keyword found in the free-text channel description to a
// channel group. In environment variables rules are written KEYWORD=GROUP and
// separated by commas.
type ChannelRule struct {
	Keyword string `yaml:"keyword" validate:"required"`
	Group   string `yaml:"group" validate:"oneof=WEBSHOP HOME_CENTER OTHER"`
}

// Decode implements envconfig.Decoder
func (r *ChannelRule) Decode(value string) error {
	keyword, group, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("channel rule %q must be KEYWORD=GROUP", value)
	}
	r.Keyword = strings.TrimSpace(keyword)
	r.Group = strings.TrimSpace(group)
	return nil
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	EnableTracing bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT"`
}

// Load builds the configuration from defaults, then the YAML file named by
// LEADTIME_CONFIG_FILE (or ./leadtime.yaml when present), then environment
// variables. Later sources win.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg. Keys absent from the file keep
// their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return validator.New().Struct(c)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}

	locations := []string{
		"leadtime.yaml",
		"configs/leadtime.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  DefaultHTTPTimeout,
			MaxUploadBytes:  DefaultMaxUploadSize,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   10,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Pipeline: DefaultPipelineConfig(),
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			EnableMetrics: true,
			TraceExporter: "none",
			SampleRatio:   1.0,
			Environment:   "development",
		},
	}
}

// DefaultPipelineConfig returns the current reporting policy: three brands,
// webshop and home-center channel keywords, the six required columns.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Brands: append([]string(nil), DefaultBrands...),
		ChannelRules: []ChannelRule{
			{Keyword: "WEBSHOP", Group: "WEBSHOP"},
			{Keyword: "HOME CENTER", Group: "HOME_CENTER"},
		},
		RequiredColumns:  RequiredColumns(),
		DateLayouts:      append([]string(nil), DefaultDateLayouts...),
		ExportDateLayout: ExportDateLayout,
		TopN:             DefaultTopN,
		ContextTopN:      DefaultContextTopN,
		TrendWindow:      DefaultTrendWindow,
		CacheEntries:     DefaultCacheEntries,
	}
}

// RequiredColumns returns the input columns every batch must carry
func RequiredColumns() []string {
	return []string{
		ColumnBrand,
		ColumnChannel,
		ColumnShipDate,
		ColumnInvoiceDate,
		ColumnCity,
		ColumnInvoiceNumber,
	}
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Sandbox   SandboxConfig   `mapstructure:"sandbox"`
	Trace     TraceConfig     `mapstructure:"trace"`
	Benchmark BenchmarkConfig `mapstructure:"benchmark"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds the transport selection and listen ports
type ServerConfig struct {
	Transport string `mapstructure:"transport"`
	HTTPPort  int    `mapstructure:"http_port"`
	MCPPort   int    `mapstructure:"mcp_port"`
}

// SandboxConfig bounds a single sandboxed execution
type SandboxConfig struct {
	TimeoutMs    int `mapstructure:"timeout_ms"`
	MaxOutputKB  int `mapstructure:"max_output_kb"`
	MaxCallStack int `mapstructure:"max_call_stack"`
	MaxSourceKB  int `mapstructure:"max_source_kb"`
	MaxInputKB   int `mapstructure:"max_input_kb"`
}

// TraceConfig bounds trace generation
type TraceConfig struct {
	MaxSteps int `mapstructure:"max_steps"`
}

// BenchmarkConfig holds the sampling parameters and request bounds for
// benchmarks
type BenchmarkConfig struct {
	Warmup        int   `mapstructure:"warmup"`
	MinSampleMs   int   `mapstructure:"min_sample_ms"`
	MaxIterations int   `mapstructure:"max_iterations"`
	Sizes         []int `mapstructure:"sizes"`
	MaxSizes      int   `mapstructure:"max_sizes"`
	MaxInputSize  int   `mapstructure:"max_input_size"`
}

// LoggingConfig holds logger construction parameters
type LoggingConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// New loads the configuration from the default search paths: config.yaml in
// the working directory or under ./config.
func New() (*Config, error) {
	return Load("")
}

// Load reads and validates the configuration. A non-empty path names the
// exact file to read and must exist; with an empty path the default search
// paths are tried and a missing file just means defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.transport", "http")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.mcp_port", 8081)

	v.SetDefault("sandbox.timeout_ms", 2000)
	v.SetDefault("sandbox.max_output_kb", 256)
	v.SetDefault("sandbox.max_call_stack", 2048)
	v.SetDefault("sandbox.max_source_kb", 128)
	v.SetDefault("sandbox.max_input_kb", 64)

	v.SetDefault("trace.max_steps", 2000)

	v.SetDefault("benchmark.warmup", 3)
	v.SetDefault("benchmark.min_sample_ms", 100)
	v.SetDefault("benchmark.max_iterations", 10000)
	v.SetDefault("benchmark.sizes", []int{64, 128, 256, 512})
	v.SetDefault("benchmark.max_sizes", 16)
	v.SetDefault("benchmark.max_input_size", 8192)

	v.SetDefault("logging.mode", "production")
	v.SetDefault("logging.level", "info")
}

// validate ensures the configuration is valid
func (c *Config) validate() error {
	switch c.Server.Transport {
	case "http", "mcp-stdio", "mcp-http":
	default:
		return fmt.Errorf("invalid server.transport: %s, must be 'http', 'mcp-stdio', or 'mcp-http'", c.Server.Transport)
	}

	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port must be between 1 and 65535, got: %d", c.Server.HTTPPort)
	}
	if c.Server.MCPPort < 1 || c.Server.MCPPort > 65535 {
		return fmt.Errorf("server.mcp_port must be between 1 and 65535, got: %d", c.Server.MCPPort)
	}

	if c.Sandbox.TimeoutMs <= 0 {
		return fmt.Errorf("sandbox.timeout_ms must be positive, got: %d", c.Sandbox.TimeoutMs)
	}
	if c.Sandbox.MaxOutputKB <= 0 {
		return fmt.Errorf("sandbox.max_output_kb must be positive, got: %d", c.Sandbox.MaxOutputKB)
	}
	if c.Sandbox.MaxCallStack <= 0 {
		return fmt.Errorf("sandbox.max_call_stack must be positive, got: %d", c.Sandbox.MaxCallStack)
	}
	if c.Sandbox.MaxSourceKB <= 0 {
		return fmt.Errorf("sandbox.max_source_kb must be positive, got: %d", c.Sandbox.MaxSourceKB)
	}
	if c.Sandbox.MaxInputKB <= 0 {
		return fmt.Errorf("sandbox.max_input_kb must be positive, got: %d", c.Sandbox.MaxInputKB)
	}

	if c.Trace.MaxSteps <= 0 {
		return fmt.Errorf("trace.max_steps must be positive, got: %d", c.Trace.MaxSteps)
	}

	if c.Benchmark.Warmup < 0 {
		return fmt.Errorf("benchmark.warmup must not be negative, got: %d", c.Benchmark.Warmup)
	}
	if c.Benchmark.MinSampleMs < 0 {
		return fmt.Errorf("benchmark.min_sample_ms must not be negative, got: %d", c.Benchmark.MinSampleMs)
	}
	if c.Benchmark.MaxIterations <= 0 {
		return fmt.Errorf("benchmark.max_iterations must be positive, got: %d", c.Benchmark.MaxIterations)
	}
	if c.Benchmark.MaxSizes <= 0 {
		return fmt.Errorf("benchmark.max_sizes must be positive, got: %d", c.Benchmark.MaxSizes)
	}
	if c.Benchmark.MaxInputSize <= 0 {
		return fmt.Errorf("benchmark.max_input_size must be positive, got: %d", c.Benchmark.MaxInputSize)
	}
	if len(c.Benchmark.Sizes) == 0 {
		return fmt.Errorf("benchmark.sizes must not be empty")
	}
	if len(c.Benchmark.Sizes) > c.Benchmark.MaxSizes {
		return fmt.Errorf("benchmark.sizes lists %d entries, more than benchmark.max_sizes (%d)",
			len(c.Benchmark.Sizes), c.Benchmark.MaxSizes)
	}
	for _, size := range c.Benchmark.Sizes {
		if size <= 0 {
			return fmt.Errorf("benchmark.sizes entries must be positive, got: %d", size)
		}
		if size > c.Benchmark.MaxInputSize {
			return fmt.Errorf("benchmark.sizes entry %d exceeds benchmark.max_input_size (%d)",
				size, c.Benchmark.MaxInputSize)
		}
	}

	if c.Logging.Mode != "production" && c.Logging.Mode != "development" {
		return fmt.Errorf("invalid logging.mode: %s, must be 'production' or 'development'", c.Logging.Mode)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %s, must be one of 'debug', 'info', 'warn', 'error'", c.Logging.Level)
	}

	return nil
}

// Timeout returns the sandbox wall-clock budget as a duration
func (s SandboxConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// MaxOutputBytes returns the combined stdout/stderr budget in bytes
func (s SandboxConfig) MaxOutputBytes() int {
	return s.MaxOutputKB * 1024
}

// MaxSourceBytes returns the accepted source size in bytes
func (s SandboxConfig) MaxSourceBytes() int {
	return s.MaxSourceKB * 1024
}

// MaxInputBytes returns the accepted input size in bytes
func (s SandboxConfig) MaxInputBytes() int {
	return s.MaxInputKB * 1024
}

// MinSampleTime returns the minimum cumulative sample time as a duration
func (b BenchmarkConfig) MinSampleTime() time.Duration {
	return time.Duration(b.MinSampleMs) * time.Millisecond
}

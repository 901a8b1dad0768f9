package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Transport: "http",
			HTTPPort:  8080,
			MCPPort:   8081,
		},
		Sandbox: SandboxConfig{
			TimeoutMs:    2000,
			MaxOutputKB:  256,
			MaxCallStack: 2048,
			MaxSourceKB:  128,
			MaxInputKB:   64,
		},
		Trace: TraceConfig{
			MaxSteps: 2000,
		},
		Benchmark: BenchmarkConfig{
			Warmup:        3,
			MinSampleMs:   100,
			MaxIterations: 10000,
			Sizes:         []int{64, 128, 256, 512},
			MaxSizes:      16,
			MaxInputSize:  8192,
		},
		Logging: LoggingConfig{
			Mode:  "production",
			Level: "info",
		},
	}
}

func writeConfigFile(t *testing.T, doc map[string]any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestNewUsesDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 8081, cfg.Server.MCPPort)
	assert.Equal(t, 2000, cfg.Sandbox.TimeoutMs)
	assert.Equal(t, 256, cfg.Sandbox.MaxOutputKB)
	assert.Equal(t, 2048, cfg.Sandbox.MaxCallStack)
	assert.Equal(t, 128, cfg.Sandbox.MaxSourceKB)
	assert.Equal(t, 64, cfg.Sandbox.MaxInputKB)
	assert.Equal(t, 2000, cfg.Trace.MaxSteps)
	assert.Equal(t, 3, cfg.Benchmark.Warmup)
	assert.Equal(t, 100, cfg.Benchmark.MinSampleMs)
	assert.Equal(t, 10000, cfg.Benchmark.MaxIterations)
	assert.Equal(t, []int{64, 128, 256, 512}, cfg.Benchmark.Sizes)
	assert.Equal(t, 16, cfg.Benchmark.MaxSizes)
	assert.Equal(t, 8192, cfg.Benchmark.MaxInputSize)
	assert.Equal(t, "production", cfg.Logging.Mode)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, map[string]any{
		"server": map[string]any{
			"transport": "mcp-http",
			"http_port": 9090,
		},
		"sandbox": map[string]any{
			"timeout_ms": 500,
		},
		"benchmark": map[string]any{
			"sizes": []int{16, 32},
		},
		"logging": map[string]any{
			"mode":  "development",
			"level": "debug",
		},
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mcp-http", cfg.Server.Transport)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 500, cfg.Sandbox.TimeoutMs)
	assert.Equal(t, []int{16, 32}, cfg.Benchmark.Sizes)
	assert.Equal(t, "development", cfg.Logging.Mode)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Keys the file does not mention keep their defaults.
	assert.Equal(t, 8081, cfg.Server.MCPPort)
	assert.Equal(t, 256, cfg.Sandbox.MaxOutputKB)
	assert.Equal(t, 10000, cfg.Benchmark.MaxIterations)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not: a map\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := writeConfigFile(t, map[string]any{
		"server": map[string]any{"transport": "grpc"},
	})

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation error")
	assert.Contains(t, err.Error(), "invalid server.transport")
}

func TestConfigValidation(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := validConfig()

		err := cfg.validate()
		require.NoError(t, err)
	})

	t.Run("ValidMCPStdioTransport", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Transport = "mcp-stdio"

		err := cfg.validate()
		require.NoError(t, err)
	})

	t.Run("ValidZeroWarmup", func(t *testing.T) {
		cfg := validConfig()
		cfg.Benchmark.Warmup = 0

		err := cfg.validate()
		require.NoError(t, err)
	})

	t.Run("InvalidServerTransport", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Transport = "grpc"

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server.transport")
	})

	t.Run("HTTPPortTooLow", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.HTTPPort = 0

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.http_port must be between 1 and 65535")
	})

	t.Run("MCPPortTooHigh", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.MCPPort = 70000

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.mcp_port must be between 1 and 65535")
	})

	t.Run("InvalidSandboxTimeout", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sandbox.TimeoutMs = 0

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sandbox.timeout_ms must be positive")
	})

	t.Run("InvalidSandboxOutputLimit", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sandbox.MaxOutputKB = -1

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sandbox.max_output_kb must be positive")
	})

	t.Run("InvalidSandboxCallStack", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sandbox.MaxCallStack = 0

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sandbox.max_call_stack must be positive")
	})

	t.Run("InvalidSandboxSourceLimit", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sandbox.MaxSourceKB = 0

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sandbox.max_source_kb must be positive")
	})

	t.Run("InvalidSandboxInputLimit", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sandbox.MaxInputKB = 0

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sandbox.max_input_kb must be positive")
	})

	t.Run("InvalidTraceSteps", func(t *testing.T) {
		cfg := validConfig()
		cfg.Trace.MaxSteps = 0

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "trace.max_steps must be positive")
	})

	t.Run("NegativeWarmup", func(t *testing.T) {
		cfg := validConfig()
		cfg.Benchmark.Warmup = -1

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "benchmark.warmup must not be negative")
	})

	t.Run("NegativeMinSample", func(t *testing.T) {
		cfg := validConfig()
		cfg.Benchmark.MinSampleMs = -5

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "benchmark.min_sample_ms must not be negative")
	})

	t.Run("InvalidMaxIterations", func(t *testing.T) {
		cfg := validConfig()
		cfg.Benchmark.MaxIterations = 0

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "benchmark.max_iterations must be positive")
	})

	t.Run("InvalidMaxSizes", func(t *testing.T) {
		cfg := validConfig()
		cfg.Benchmark.MaxSizes = 0

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "benchmark.max_sizes must be positive")
	})

	t.Run("InvalidMaxInputSize", func(t *testing.T) {
		cfg := validConfig()
		cfg.Benchmark.MaxInputSize = 0

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "benchmark.max_input_size must be positive")
	})

	t.Run("EmptySizes", func(t *testing.T) {
		cfg := validConfig()
		cfg.Benchmark.Sizes = nil

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "benchmark.sizes must not be empty")
	})

	t.Run("TooManySizes", func(t *testing.T) {
		cfg := validConfig()
		cfg.Benchmark.MaxSizes = 2
		cfg.Benchmark.Sizes = []int{1, 2, 3}

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "more than benchmark.max_sizes")
	})

	t.Run("NonPositiveSizeEntry", func(t *testing.T) {
		cfg := validConfig()
		cfg.Benchmark.Sizes = []int{64, 0}

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "benchmark.sizes entries must be positive")
	})

	t.Run("SizeExceedsMaxInputSize", func(t *testing.T) {
		cfg := validConfig()
		cfg.Benchmark.Sizes = []int{64, 100000}

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds benchmark.max_input_size")
	})

	t.Run("InvalidLoggingMode", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Mode = "verbose"

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid logging.mode")
	})

	t.Run("InvalidLogLevel", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Level = "trace"

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid logging.level")
	})
}

func TestDurationAccessors(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, 2*time.Second, cfg.Sandbox.Timeout())
	assert.Equal(t, 100*time.Millisecond, cfg.Benchmark.MinSampleTime())
}

func TestByteAccessors(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, 256*1024, cfg.Sandbox.MaxOutputBytes())
	assert.Equal(t, 128*1024, cfg.Sandbox.MaxSourceBytes())
	assert.Equal(t, 64*1024, cfg.Sandbox.MaxInputBytes())
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultConfigRelPath = ".harscope/config.yaml"

type ThresholdConfig struct {
	SlowResponseMs    float64 `yaml:"slow_response_ms"`
	HighWaitMs        float64 `yaml:"high_wait_ms"`
	ConnectionDelayMs float64 `yaml:"connection_delay_ms"`
	DNSDelayMs        float64 `yaml:"dns_delay_ms"`
}

type ParserConfig struct {
	ChunkThreshold   int `yaml:"chunk_threshold"`
	ChunkSize        int `yaml:"chunk_size"`
	MaxFileSizeMB    int `yaml:"max_file_size_mb"`
	MinFileSizeBytes int `yaml:"min_file_size_bytes"`
}

type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

type ReportConfig struct {
	TopEndpoints int `yaml:"top_endpoints"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type Config struct {
	Thresholds ThresholdConfig `yaml:"thresholds"`
	Parser     ParserConfig    `yaml:"parser"`
	Output     OutputConfig    `yaml:"output"`
	Report     ReportConfig    `yaml:"report"`
	Store      StoreConfig     `yaml:"store"`
	Log        LogConfig       `yaml:"log"`
}

// Load loads YAML config, then applies env overrides.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}
	cfg.SetDefaults()

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		configPath = filepath.Join(home, defaultConfigRelPath)
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func (c *Config) SetDefaults() {
	if c.Thresholds.SlowResponseMs == 0 {
		c.Thresholds.SlowResponseMs = 1000
	}
	if c.Thresholds.HighWaitMs == 0 {
		c.Thresholds.HighWaitMs = 500
	}
	if c.Thresholds.ConnectionDelayMs == 0 {
		c.Thresholds.ConnectionDelayMs = 1000
	}
	if c.Thresholds.DNSDelayMs == 0 {
		c.Thresholds.DNSDelayMs = 100
	}
	if c.Parser.ChunkThreshold == 0 {
		c.Parser.ChunkThreshold = 10000
	}
	if c.Parser.ChunkSize == 0 {
		c.Parser.ChunkSize = 1000
	}
	if c.Parser.MaxFileSizeMB == 0 {
		c.Parser.MaxFileSizeMB = 50
	}
	if c.Parser.MinFileSizeBytes == 0 {
		c.Parser.MinFileSizeBytes = 100
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./output"
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{"markdown", "json", "csv"}
	}
	if c.Report.TopEndpoints == 0 {
		c.Report.TopEndpoints = 10
	}
	if c.Store.Path == "" {
		c.Store.Path = defaultStorePath()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "harscope.db"
	}
	return filepath.Join(home, ".harscope", "harscope.db")
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.New("output.dir cannot be empty")
	}
	if c.Parser.ChunkSize < 1 {
		return errors.New("parser.chunk_size must be positive")
	}
	if c.Parser.ChunkThreshold < 1 {
		return errors.New("parser.chunk_threshold must be positive")
	}
	if c.Parser.MaxFileSizeMB < 1 {
		return errors.New("parser.max_file_size_mb must be positive")
	}
	for _, f := range c.Output.Formats {
		switch f {
		case "markdown", "json", "csv":
		default:
			return fmt.Errorf("unknown output format %q", f)
		}
	}
	if err := ensureWritableDir(c.Output.Dir); err != nil {
		return fmt.Errorf("output.dir not writable: %w", err)
	}
	return nil
}

func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func applyEnvOverrides(c *Config) {
	setFloat(&c.Thresholds.SlowResponseMs, "HARSCOPE_SLOW_RESPONSE_MS")
	setFloat(&c.Thresholds.HighWaitMs, "HARSCOPE_HIGH_WAIT_MS")
	setFloat(&c.Thresholds.ConnectionDelayMs, "HARSCOPE_CONNECTION_DELAY_MS")
	setFloat(&c.Thresholds.DNSDelayMs, "HARSCOPE_DNS_DELAY_MS")
	setInt(&c.Parser.ChunkThreshold, "HARSCOPE_CHUNK_THRESHOLD")
	setInt(&c.Parser.ChunkSize, "HARSCOPE_CHUNK_SIZE")
	setInt(&c.Parser.MaxFileSizeMB, "HARSCOPE_MAX_FILE_SIZE_MB")
	setString(&c.Output.Dir, "HARSCOPE_OUTPUT_DIR")
	setString(&c.Store.Path, "HARSCOPE_STORE_PATH")
	setString(&c.Log.Level, "HARSCOPE_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = n
		}
	}
}

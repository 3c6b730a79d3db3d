package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath      = "hrgraph.yaml"
	DefaultDBPath    = "hrgraph.db"
	DefaultEdgeLimit = 10000
	DefaultLogLevel  = "info"
)

type Config struct {
	Storage struct {
		DB string `yaml:"db"`
	} `yaml:"storage"`
	Mapping struct {
		Nodes map[string]string `yaml:"nodes"` // schema field -> source header
		Edges map[string]string `yaml:"edges"`
	} `yaml:"mapping"`
	View struct {
		EdgeLimit    int  `yaml:"edge_limit"`
		WeightedPath bool `yaml:"weighted_path"`
	} `yaml:"view"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Storage.DB = DefaultDBPath
	cfg.View.EdgeLimit = DefaultEdgeLimit
	cfg.Log.Level = DefaultLogLevel
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config on top of the defaults
	cfg := Default()
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if db := os.Getenv("HRGRAPH_DB"); db != "" {
		cfg.Storage.DB = db
	}
	if limit := os.Getenv("HRGRAPH_EDGE_LIMIT"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return nil, fmt.Errorf("invalid HRGRAPH_EDGE_LIMIT %q: %w", limit, err)
		}
		cfg.View.EdgeLimit = n
	}
	if level := os.Getenv("HRGRAPH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

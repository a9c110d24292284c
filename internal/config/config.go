package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "STAFFING_"

type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

func (m Mode) IsDevelopment() bool {
	return m == ModeDevelopment
}

func (m Mode) IsProduction() bool {
	return m == ModeProduction
}

type Config struct {
	Mode    Mode          `json:"mode"`
	HTTP    HTTPConfig    `json:"http"`
	Storage StorageConfig `json:"storage"`
	Log     LogConfig     `json:"log"`
	Engine  EngineConfig  `json:"engine"`
}

// Load reads an optional YAML or JSON file and applies STAFFING_* environment
// overrides, using "__" as the section separator (STAFFING_STORAGE__BACKEND).
// Outside production a local .env file is loaded first when present.
func Load(path string) (*Config, error) {
	if Mode(strings.ToLower(os.Getenv(envPrefix+"MODE"))) != ModeProduction {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	k := koanf.New(".")
	if strings.TrimSpace(path) != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) SetDefaults() {
	c.Mode = Mode(strings.ToLower(strings.TrimSpace(string(c.Mode))))
	if c.Mode == "" {
		c.Mode = ModeProduction
	}
	c.HTTP.SetDefaults(c.Mode)
	c.Storage.SetDefaults()
	c.Log.SetDefaults(c.Mode)
	c.Engine.SetDefaults()
}

func (c Config) Validate() error {
	if c.Mode != ModeDevelopment && c.Mode != ModeProduction {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeDevelopment, ModeProduction, c.Mode)
	}
	if err := c.HTTP.Validate(c.Mode); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

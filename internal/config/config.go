package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const DefaultPath = "config.json"

var Config Configuration = Default()

type Configuration struct {
	LogLevel    int    `json:"logLevel" toml:"log_level" env:"NETPONG_LOG_LEVEL"`
	LogFile     string `json:"logFile" toml:"log_file" env:"NETPONG_LOG_FILE"`
	Port        int    `json:"port" toml:"port" env:"NETPONG_PORT"`
	TickRate    int    `json:"tickRate" toml:"tick_rate" env:"NETPONG_TICK_RATE"`
	PaddleSpeed int    `json:"paddleSpeed" toml:"paddle_speed" env:"NETPONG_PADDLE_SPEED"`
	MaxRead     int    `json:"maxRead" toml:"max_read" env:"NETPONG_MAX_READ"`
}

func Default() Configuration {
	return Configuration{
		LogLevel:    int(slog.LevelInfo),
		LogFile:     "netpong.log",
		Port:        65432,
		TickRate:    60,
		PaddleSpeed: 5,
		MaxRead:     4096,
	}
}

// Load reads the file at path over the defaults, then applies environment
// overrides. A missing file is not an error. Files ending in .toml are read
// as TOML, anything else as JSON.
func Load(path string) (Configuration, error) {
	c := Default()
	if path == "" {
		path = DefaultPath
	}

	cf, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		slog.Info("failed to open config at path provided, using default config instead", slog.String("path", path))
	case err != nil:
		return Configuration{}, fmt.Errorf("read config %s: %w", path, err)
	case strings.EqualFold(filepath.Ext(path), ".toml"):
		if err := toml.Unmarshal(cf, &c); err != nil {
			return Configuration{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(cf, &c); err != nil {
			return Configuration{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&c); err != nil {
		return Configuration{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.validate(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

// LoadConfig loads path into the package level Config.
func LoadConfig(path string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	Config = c
	return nil
}

func (c Configuration) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("invalid tick rate %d", c.TickRate)
	}
	if c.PaddleSpeed < 0 {
		return fmt.Errorf("invalid paddle speed %d", c.PaddleSpeed)
	}
	if c.MaxRead <= 0 {
		return fmt.Errorf("invalid max read %d", c.MaxRead)
	}
	return nil
}

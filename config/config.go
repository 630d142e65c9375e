// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/pebble"
	"github.com/ava-labs/shieldswap/server"
	"github.com/ava-labs/shieldswap/trace"
)

const (
	MemDB    = "memdb"
	PebbleDB = "pebble"

	envPrefix = "SHIELDSWAP"
)

var (
	ErrUnknownDatabase = errors.New("unknown database type")
	ErrMissingPath     = errors.New("pebble database requires a path")
)

type DatabaseConfig struct {
	Type   string        `json:"type"`
	Path   string        `json:"path"`
	Pebble pebble.Config `json:"pebble"`
}

type LogConfig struct {
	Level        string `json:"level"`
	DisplayLevel string `json:"displayLevel"`
	Format       string `json:"format"`
	// Directory enables file logging when set.
	Directory string `json:"directory"`
	MaxSize   int    `json:"maxSize"` // megabytes
	MaxFiles  int    `json:"maxFiles"`
	MaxAge    int    `json:"maxAge"` // days
	Compress  bool   `json:"compress"`
}

type Config struct {
	HTTPHost        string            `json:"httpHost"`
	HTTPPort        uint16            `json:"httpPort"`
	HTTP            server.HTTPConfig `json:"http"`
	AllowedOrigins  []string          `json:"allowedOrigins"`
	AllowedHosts    []string          `json:"allowedHosts"`
	ShutdownTimeout time.Duration     `json:"shutdownTimeout"`

	// StreamBacklog is the number of events buffered per websocket
	// subscriber before it is dropped.
	StreamBacklog int `json:"streamBacklog"`

	GenesisFile string         `json:"genesisFile"`
	Database    DatabaseConfig `json:"database"`
	Log         LogConfig      `json:"log"`
	Trace       trace.Config   `json:"trace"`
}

func NewConfig() Config {
	return Config{
		HTTPHost: "127.0.0.1",
		HTTPPort: 9660,
		HTTP: server.HTTPConfig{
			ReadTimeout:       30 * time.Second,
			ReadHeaderTimeout: 30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		AllowedOrigins:  []string{"*"},
		AllowedHosts:    []string{"localhost"},
		ShutdownTimeout: 10 * time.Second,
		StreamBacklog:   1_024,
		Database: DatabaseConfig{
			Type:   MemDB,
			Pebble: pebble.NewDefaultConfig(),
		},
		Log: LogConfig{
			Level:        logging.Info.String(),
			DisplayLevel: logging.Info.String(),
			Format:       "auto",
			MaxSize:      8,
			MaxFiles:     5,
			MaxAge:       30,
			Compress:     true,
		},
		Trace: trace.NewDefaultConfig(),
	}
}

// Load layers [path] (if any) and SHIELDSWAP_* environment variables over
// the defaults. Nested keys use underscores, for example
// SHIELDSWAP_DATABASE_TYPE=pebble.
func Load(path string) (Config, error) {
	cfg := NewConfig()

	v := viper.New()
	v.SetConfigType("json")
	// seed every key so environment overrides are picked up
	defaults, err := json.Marshal(cfg)
	if err != nil {
		return Config{}, err
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "json"
	}); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.Verify()
}

func (c Config) Verify() error {
	switch c.Database.Type {
	case MemDB:
	case PebbleDB:
		if c.Database.Path == "" {
			return ErrMissingPath
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDatabase, c.Database.Type)
	}
	if _, err := logging.ToLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ToLevel(c.Log.DisplayLevel); err != nil {
		return err
	}
	_, err := logging.ToFormat(c.Log.Format, 0)
	return err
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// LoggingConfig converts the log section into the avalanchego logger
// settings. Verify must have passed.
func (c Config) LoggingConfig() logging.Config {
	level, _ := logging.ToLevel(c.Log.Level)
	displayLevel, _ := logging.ToLevel(c.Log.DisplayLevel)
	format, _ := logging.ToFormat(c.Log.Format, 0)
	return logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   c.Log.MaxSize,
			MaxFiles:  c.Log.MaxFiles,
			MaxAge:    c.Log.MaxAge,
			Directory: c.Log.Directory,
			Compress:  c.Log.Compress,
		},
		DisableWriterDisplaying: c.Log.Directory != "" && displayLevel == logging.Off,
		LogLevel:                level,
		DisplayLevel:            displayLevel,
		LogFormat:               format,
		LoggerName:              consts.Name,
	}
}

package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type LogConfig struct {
	Level      string `yaml:"level"`
	Path       string `yaml:"path"`
	ErrorPath  string `yaml:"errorpath"`
	MaxSize    int    `yaml:"maxsize"`
	MaxBackups int    `yaml:"maxbackups"`
	MaxAge     int    `yaml:"maxage"`
	Compress   bool   `yaml:"compress"`
	Console    bool   `yaml:"console"`
}

type ServerConfig struct {
	RunAddress string `yaml:"runaddress"`
}

type APIConfig struct {
	Token string `yaml:"token"`
}

// StorageConfig выбор хранилища настроек: memory, file, sqlite, postgres
type StorageConfig struct {
	Type             string `yaml:"type"`
	DataPath         string `yaml:"datapath"`
	DBPath           string `yaml:"dbpath"`
	ConnectionString string `yaml:"connectionstring"`
}

// CatalogConfig откуда брать список групп
type CatalogConfig struct {
	Source          string        `yaml:"source"` // api или file
	BaseURL         string        `yaml:"baseurl"`
	Token           string        `yaml:"token"`
	FilePath        string        `yaml:"filepath"`
	Timeout         time.Duration `yaml:"timeout"`
	RefreshInterval time.Duration `yaml:"refreshinterval"`
}

type SortingConfig struct {
	Fallback string `yaml:"fallback"`
}

type TelegramConfig struct {
	Token       string `yaml:"token"`
	BotName     string `yaml:"botname"`
	MaxResults  int    `yaml:"maxresults"`
	PollTimeout int    `yaml:"polltimeout"`
}

// Config представляет структуру конфигурации
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Sorting  SortingConfig  `yaml:"sorting"`
	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"logger"`
}

// ConfigPathFlag регистрирует флаг -c; вызывать до flag.Parse
func ConfigPathFlag(defaultPath string) *string {
	return flag.String("c", defaultPath, "config path")
}

// LoadConfig загружает конфигурацию из файла YAML и заполняет значения по умолчанию
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig разбирает YAML
func ParseConfig(data []byte) (*Config, error) {
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	config.setDefaults()
	return config, nil
}

func (c *Config) setDefaults() {
	if c.Server.RunAddress == "" {
		c.Server.RunAddress = ":8080"
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "memory"
	}
	if c.Storage.DataPath == "" {
		c.Storage.DataPath = "data"
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = "data/settings.db"
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = "api"
	}
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = "https://api.campus.kpi.ua"
	}
	if c.Catalog.Timeout <= 0 {
		c.Catalog.Timeout = 10 * time.Second
	}
	if c.Catalog.RefreshInterval <= 0 {
		c.Catalog.RefreshInterval = 6 * time.Hour
	}
	if c.Telegram.MaxResults <= 0 {
		c.Telegram.MaxResults = 20
	}
	if c.Telegram.PollTimeout <= 0 {
		c.Telegram.PollTimeout = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Path == "" {
		c.Log.Path = "logs/grouppicker.log"
	}
	if c.Log.ErrorPath == "" {
		c.Log.ErrorPath = "logs/grouppicker.error.log"
	}
	if c.Log.MaxSize <= 0 {
		c.Log.MaxSize = 10
	}
}

// Package config loads the catalog service configuration and its seed games from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gartstein/catalog/internal/company/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides the config file location.
const EnvPath = "CATALOG_CONFIG"

// DefaultPath is used when EnvPath is unset.
var DefaultPath = filepath.Join("internal", "company", "config", "config.yaml")

// Config struct for YAML configuration
type Config struct {
	CompanyName   string       `yaml:"COMPANY_NAME"`
	KafkaBrokers  []string     `yaml:"KAFKA_BROKERS"`
	Topic         string       `yaml:"TOPIC"`
	WatchEvents   bool         `yaml:"WATCH_EVENTS"`
	ConsumerGroup string       `yaml:"CONSUMER_GROUP"`
	LogLevel      string       `yaml:"LOG_LEVEL"`
	Games         []GameConfig `yaml:"GAMES"`
}

// GameConfig is a seed game. Omitted keys stay nil so admission can reject them.
type GameConfig struct {
	Code        string       `yaml:"code"`
	Name        string       `yaml:"name"`
	Genre       string       `yaml:"genre"`
	Price       *string      `yaml:"price"`
	Rating      *float64     `yaml:"rating"`
	ReleaseDate *models.Date `yaml:"release_date"`
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(file)
}

// LoadFromEnv loads the file named by CATALOG_CONFIG, or DefaultPath.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvPath)
	if path == "" {
		path = DefaultPath
	}
	return Load(path)
}

// Parse decodes a YAML document and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Topic == "" {
		cfg.Topic = "catalog.events"
	}
	if cfg.ConsumerGroup == "" {
		cfg.ConsumerGroup = "catalog-watcher"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}

// ToGame converts the seed entry into a Game. Only a malformed price is an
// error here; every other constraint is left to admission. An empty release
// date is treated as missing.
func (g GameConfig) ToGame() (*models.Game, error) {
	game := &models.Game{
		Code:        g.Code,
		Name:        g.Name,
		Genre:       g.Genre,
		Rating:      g.Rating,
	}
	if g.ReleaseDate != nil && !g.ReleaseDate.IsZero() {
		game.ReleaseDate = g.ReleaseDate
	}
	if g.Price != nil {
		price, err := decimal.NewFromString(*g.Price)
		if err != nil {
			return nil, fmt.Errorf("game %q: invalid price %q: %w", g.Code, *g.Price, err)
		}
		game.Price = &price
	}
	return game, nil
}

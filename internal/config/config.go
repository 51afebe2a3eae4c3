// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Whitelist WhitelistConfig `mapstructure:"whitelist"`
	Economy   EconomyConfig   `mapstructure:"economy"`
	Games     GamesConfig     `mapstructure:"games"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token string `mapstructure:"token"`
}

// StorageConfig selects and configures the blob store backend.
type StorageConfig struct {
	// Backend is one of "file", "postgres", "redis".
	Backend  string         `mapstructure:"backend"`
	File     FileConfig     `mapstructure:"file"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// FileConfig holds file store configuration.
type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AdminConfig holds admin user configuration.
type AdminConfig struct {
	IDs []int64 `mapstructure:"ids"`
}

// WhitelistConfig holds chat whitelist configuration.
type WhitelistConfig struct {
	Chats []int64 `mapstructure:"chats"`
}

// EconomyConfig holds reward-economy tuning.
type EconomyConfig struct {
	// JackpotContributionRate is the share of every gambling loss that
	// feeds the VIP jackpot pool (e.g. 0.01 = 1%).
	JackpotContributionRate float64 `mapstructure:"jackpot_contribution_rate"`

	// OfferDurationMinutes is how long a limited-time shop offer stays
	// valid before it re-rolls.
	OfferDurationMinutes int `mapstructure:"offer_duration_minutes"`
}

// GamesConfig holds game-specific configuration.
type GamesConfig struct {
	CoinFlip CoinFlipConfig `mapstructure:"coinflip"`
	Dice     DiceConfig     `mapstructure:"dice"`
	Slot     SlotConfig     `mapstructure:"slot"`
}

// CoinFlipConfig holds coin flip game configuration.
type CoinFlipConfig struct {
	MaxBet          int64 `mapstructure:"max_bet"`
	CooldownSeconds int   `mapstructure:"cooldown_seconds"`
}

// DiceConfig holds dice game configuration.
type DiceConfig struct {
	MaxBet          int64 `mapstructure:"max_bet"`
	CooldownSeconds int   `mapstructure:"cooldown_seconds"`
}

// SlotConfig holds slot game configuration.
type SlotConfig struct {
	MaxBet          int64 `mapstructure:"max_bet"`
	CooldownSeconds int   `mapstructure:"cooldown_seconds"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Enable environment variable override
	// Environment variables use underscore separator and uppercase
	// e.g., BOT_TOKEN, STORAGE_BACKEND, STORAGE_REDIS_ADDR
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional - env vars can provide all config)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we can use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Storage defaults
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.file.dir", "data")
	v.SetDefault("storage.database.host", "localhost")
	v.SetDefault("storage.database.port", 5432)
	v.SetDefault("storage.database.user", "blobby")
	v.SetDefault("storage.database.name", "blobby")
	v.SetDefault("storage.database.pool_size", 20)
	v.SetDefault("storage.database.connect_timeout", "10s")
	v.SetDefault("storage.database.max_conn_lifetime", "1h")
	v.SetDefault("storage.database.max_conn_idle_time", "30m")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)

	// Economy defaults
	v.SetDefault("economy.jackpot_contribution_rate", 0.01)
	v.SetDefault("economy.offer_duration_minutes", 60)

	// Game defaults
	v.SetDefault("games.coinflip.max_bet", 1000)
	v.SetDefault("games.coinflip.cooldown_seconds", 3)
	v.SetDefault("games.dice.max_bet", 1000)
	v.SetDefault("games.dice.cooldown_seconds", 3)
	v.SetDefault("games.slot.max_bet", 500)
	v.SetDefault("games.slot.cooldown_seconds", 5)
}

// IsAdmin checks if a user ID is in the admin list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Admin.IDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsChatAllowed checks if a chat ID is in the whitelist.
func (c *Config) IsChatAllowed(chatID int64) bool {
	// Empty whitelist means all chats are allowed
	if len(c.Whitelist.Chats) == 0 {
		return true
	}
	for _, id := range c.Whitelist.Chats {
		if id == chatID {
			return true
		}
	}
	return false
}

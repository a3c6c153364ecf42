// Package config provides Viper-based configuration loading for the Oozu game core.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends accepted by StoreConfig.Backend.
const (
	BackendJSON     = "json"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Quest durability policies accepted by QuestConfig.Durability.
const (
	DurabilityMemory  = "memory"
	DurabilityPersist = "persist"
)

// GameConfig holds content locations and economy tuning.
type GameConfig struct {
	// DataDir is the directory holding the species and item files.
	DataDir string `mapstructure:"data_dir"`
	// SpeciesFile is the template file name inside DataDir.
	SpeciesFile string `mapstructure:"species_file"`
	// ItemsFile is the item file name inside DataDir. A missing file yields no items.
	ItemsFile string `mapstructure:"items_file"`
	// SpritesRoot is the directory scanned for scene, event, and oozu art.
	SpritesRoot string `mapstructure:"sprites_root"`
	// StartingCurrency is the Oozorb balance granted at registration.
	StartingCurrency int `mapstructure:"starting_currency"`
	// MaxStamina is the stamina cap assigned at registration.
	MaxStamina int `mapstructure:"max_stamina"`
	// StarterChoices is how many starter templates are offered to a new player.
	StarterChoices int `mapstructure:"starter_choices"`
}

// SpeciesPath returns the full path of the template file.
func (g GameConfig) SpeciesPath() string {
	return joinPath(g.DataDir, g.SpeciesFile)
}

// ItemsPath returns the full path of the item file.
func (g GameConfig) ItemsPath() string {
	return joinPath(g.DataDir, g.ItemsFile)
}

func joinPath(dir, file string) string {
	if dir == "" {
		return file
	}
	return strings.TrimRight(dir, "/") + "/" + file
}

// StoreConfig selects where player profiles are persisted.
type StoreConfig struct {
	// Backend is one of "json", "postgres", "redis".
	Backend string `mapstructure:"backend"`
	// Path is the JSON document location for the json backend.
	Path string `mapstructure:"path"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings for the redis store backend.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	PoolSize  int    `mapstructure:"pool_size"`
}

// QuestConfig controls quest state durability.
type QuestConfig struct {
	// Durability is "memory" (quests lost on restart) or "persist".
	Durability string `mapstructure:"durability"`
}

// ConsoleConfig selects where the text console is served.
type ConsoleConfig struct {
	// Stdin runs one console on the process's standard streams.
	Stdin bool `mapstructure:"stdin"`
	// ListenAddr serves a console per TCP connection when non-empty.
	ListenAddr string `mapstructure:"listen_addr"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Game     GameConfig     `mapstructure:"game"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Quest    QuestConfig    `mapstructure:"quest"`
	Console  ConsoleConfig  `mapstructure:"console"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStore(c.Store); err != nil {
		errs = append(errs, err.Error())
	}
	// Backend-specific sections are only checked when selected.
	switch c.Store.Backend {
	case BackendPostgres:
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	case BackendRedis:
		if err := validateRedis(c.Redis); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateQuest(c.Quest); err != nil {
		errs = append(errs, err.Error())
	}
	if !c.Console.Stdin && c.Console.ListenAddr == "" {
		errs = append(errs, "console: enable stdin or set listen_addr")
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.SpeciesFile == "" {
		errs = append(errs, "game.species_file must not be empty")
	}
	if g.StartingCurrency < 0 {
		errs = append(errs, fmt.Sprintf("game.starting_currency must be >= 0, got %d", g.StartingCurrency))
	}
	if g.MaxStamina < 1 {
		errs = append(errs, fmt.Sprintf("game.max_stamina must be >= 1, got %d", g.MaxStamina))
	}
	if g.StarterChoices < 1 {
		errs = append(errs, fmt.Sprintf("game.starter_choices must be >= 1, got %d", g.StarterChoices))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStore(s StoreConfig) error {
	validBackends := map[string]bool{BackendJSON: true, BackendPostgres: true, BackendRedis: true}
	if !validBackends[s.Backend] {
		return fmt.Errorf("store.backend must be one of [json, postgres, redis], got %q", s.Backend)
	}
	if s.Backend == BackendJSON && s.Path == "" {
		return errors.New("store.path must not be empty for the json backend")
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRedis(r RedisConfig) error {
	var errs []string
	if r.Addr == "" {
		errs = append(errs, "redis.addr must not be empty")
	}
	if r.KeyPrefix == "" {
		errs = append(errs, "redis.key_prefix must not be empty")
	}
	if r.PoolSize < 0 {
		errs = append(errs, fmt.Sprintf("redis.pool_size must be >= 0, got %d", r.PoolSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateQuest(q QuestConfig) error {
	if q.Durability != DurabilityMemory && q.Durability != DurabilityPersist {
		return fmt.Errorf("quest.durability must be one of [memory, persist], got %q", q.Durability)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and OOZU_ environment overrides applied.
//
// Postcondition: Unmarshalling the result without a config file yields a valid Config.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("OOZU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.data_dir", "data")
	v.SetDefault("game.species_file", "species.yaml")
	v.SetDefault("game.items_file", "items.yaml")
	v.SetDefault("game.sprites_root", "sprites")
	v.SetDefault("game.starting_currency", 100)
	v.SetDefault("game.max_stamina", 10)
	v.SetDefault("game.starter_choices", 3)

	v.SetDefault("store.backend", BackendJSON)
	v.SetDefault("store.path", "data/players.json")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "oozu")
	v.SetDefault("database.password", "oozu")
	v.SetDefault("database.name", "oozu")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "oozu")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("quest.durability", DurabilityMemory)

	v.SetDefault("console.stdin", true)
	v.SetDefault("console.listen_addr", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"stockroom/internal/domain/entity"
)

// EnvPrefix namespaces environment overrides, e.g. STOCKROOM_INVENTORY_CAPACITY.
const EnvPrefix = "STOCKROOM"

// Config holds all application configuration.
type Config struct {
	Inventory InventoryConfig
	IDs       IDConfig
	Logger    LoggerConfig
}

type InventoryConfig struct {
	// Capacity bounds the number of stored items; 0 disables the bound.
	Capacity          int
	LowStockThreshold int
}

type IDConfig struct {
	Format           entity.IDFormat
	UpdateMatch      entity.MatchMode
	LookupMatch      entity.MatchMode
	RejectDuplicates bool
}

type LoggerConfig struct {
	Level    string
	Encoding string
	Output   string
}

// Load reads .env (if present), then config.yaml from ./config, . or the
// explicit path, then environment variables. Later sources win.
func Load(v *viper.Viper, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return FromViper(v)
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("inventory.capacity", 100)
	v.SetDefault("inventory.low_stock_threshold", 5)
	v.SetDefault("ids.format", string(entity.IDFormatAlphanumeric))
	v.SetDefault("ids.update_match", string(entity.MatchFold))
	v.SetDefault("ids.lookup_match", string(entity.MatchExact))
	v.SetDefault("ids.reject_duplicates", false)
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.output", "stderr")
}

// FromViper builds and validates a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Inventory.Capacity = v.GetInt("inventory.capacity")
	cfg.Inventory.LowStockThreshold = v.GetInt("inventory.low_stock_threshold")

	format, err := entity.ParseIDFormat(v.GetString("ids.format"))
	if err != nil {
		return nil, err
	}
	cfg.IDs.Format = format

	if cfg.IDs.UpdateMatch, err = entity.ParseMatchMode(v.GetString("ids.update_match")); err != nil {
		return nil, fmt.Errorf("ids.update_match: %w", err)
	}
	if cfg.IDs.LookupMatch, err = entity.ParseMatchMode(v.GetString("ids.lookup_match")); err != nil {
		return nil, fmt.Errorf("ids.lookup_match: %w", err)
	}
	cfg.IDs.RejectDuplicates = v.GetBool("ids.reject_duplicates")

	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.Output = v.GetString("logger.output")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Inventory.Capacity < 0 {
		return fmt.Errorf("inventory.capacity must be 0 or greater, got %d", c.Inventory.Capacity)
	}
	if c.Inventory.LowStockThreshold <= 0 {
		return fmt.Errorf("inventory.low_stock_threshold must be positive, got %d", c.Inventory.LowStockThreshold)
	}
	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logger.level must be one of debug, info, warn, error, got %q", c.Logger.Level)
	}
	switch c.Logger.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("logger.encoding must be console or json, got %q", c.Logger.Encoding)
	}
	if c.Logger.Output == "" {
		return fmt.Errorf("logger.output is required")
	}
	return nil
}

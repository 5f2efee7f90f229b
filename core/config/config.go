package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"sprite-index/core/database"
	"sprite-index/core/logger"
	"sprite-index/core/server"
	"sprite-index/core/storage"
	"sprite-index/feature/sprite"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds the bucket sprites are published to and the game master
	// is read from.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the optional snapshot database.
	Database database.Config `mapstructure:"database"`
	// Sprite holds the identity resolution and asset pipeline settings.
	Sprite sprite.Config `mapstructure:"sprite"`
}

// LoadConfig reads dir/config.yaml when present, then applies dir/.env and
// the environment on top. Environment variables always win.
func LoadConfig(dir string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	bindValues(v, reflect.TypeOf(Config{}), "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// SPRITE_OUTPUT_DIR -> sprite.output_dir
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := config.Server.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// bindValues registers the `default` tag of every mapstructure field so
// AutomaticEnv can see keys that have no value yet.
func bindValues(v *viper.Viper, t reflect.Type, prefix string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, field.Type, key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// App is the file-based application configuration.
type App struct {
	CachePath         string        `mapstructure:"cache_path"`
	RatesTTL          time.Duration `mapstructure:"rates_ttl"`
	RemoteTimeout     time.Duration `mapstructure:"remote_timeout"`
	WarehouseProfiles string        `mapstructure:"warehouse_profiles"`
	WarehouseProfile  string        `mapstructure:"warehouse_profile"`
}

// LoadApp loads configuration from the specified file, filling defaults for
// anything the file leaves out. A missing file is fine; every field has a
// workable default and the warehouse is optional.
func LoadApp(path string) (*App, error) {
	v := viper.New()
	v.SetDefault("cache_path", "power-quote.db")
	v.SetDefault("rates_ttl", "5m")
	v.SetDefault("remote_timeout", "10s")
	v.SetDefault("warehouse_profile", "default")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var app App
	if err := v.Unmarshal(&app); err != nil {
		return nil, fmt.Errorf("failed to parse app config: %w", err)
	}
	return &app, nil
}

package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"jwt"`
	Admin struct {
		APIKey string `mapstructure:"api_key"`
	} `mapstructure:"admin"`
	Ledger struct {
		MinPinLength        int `mapstructure:"min_pin_length"`
		MaxPinAttempts      int `mapstructure:"max_pin_attempts"`
		StoreTimeoutSeconds int `mapstructure:"store_timeout_seconds"`
		DefaultHistoryLimit int `mapstructure:"default_history_limit"`
	} `mapstructure:"ledger"`
}

var AppConfig Config

// StoreTimeout returns the per-operation deadline applied to durable-store
// round trips.
func (c *Config) StoreTimeout() time.Duration {
	return time.Duration(c.Ledger.StoreTimeoutSeconds) * time.Second
}

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetDefault("ledger.min_pin_length", 4)
	viper.SetDefault("ledger.max_pin_attempts", 3)
	viper.SetDefault("ledger.store_timeout_seconds", 5)
	viper.SetDefault("ledger.default_history_limit", 50)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}

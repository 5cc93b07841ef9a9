package config

import (
	"sitelog/internal/logger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	SessionExpiryHours   int    `mapstructure:"SESSION_EXPIRY_HOURS"`
	ExportDir            string `mapstructure:"EXPORT_DIR"`
	ExportRetentionDays  int    `mapstructure:"EXPORT_RETENTION_DAYS"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
	AutoLockAfterMonths  int    `mapstructure:"AUTO_LOCK_AFTER_MONTHS"`
}

var ConfigInstance Config

// InitConfig loads configuration from the environment, falling back to a
// local .env file when the key variables are not set.
func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT",
		"CORS_ALLOW_ORIGINS",
		"JWT_SECRET", "SESSION_EXPIRY_HOURS",
		"EXPORT_DIR", "EXPORT_RETENTION_DAYS",
		"SCHEDULER_ENABLED", "AUTO_LOCK_AFTER_MONTHS",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	setDefaults()

	if viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST") {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from .env")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("failed to unmarshal config", err)
	}

	if config.JWTSecret == "" {
		return Config{}, log.ErrMsg("JWT_SECRET is required")
	}

	ConfigInstance = config
	log.Info("Config initialized", "environment", config.Environment, "port", config.ServerPort)

	return config, nil
}

func setDefaults() {
	viper.SetDefault("GENERAL_VERSION", "dev")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("SERVER_PORT", 8280)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("EXPORT_DIR", "exports")
	viper.SetDefault("EXPORT_RETENTION_DAYS", 7)
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("AUTO_LOCK_AFTER_MONTHS", 0)
}

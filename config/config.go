package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB          int    `mapstructure:"REDIS_AUTH_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Booking.
	SlotDurationMinutes int    `mapstructure:"SLOT_DURATION_MINUTES"`
	BookingWindowDays   int    `mapstructure:"BOOKING_WINDOW_DAYS"`
	MaxWindowDays       int    `mapstructure:"MAX_WINDOW_DAYS"`
	Timezone            string `mapstructure:"TIMEZONE"`
	ReminderLeadMinutes int    `mapstructure:"REMINDER_LEAD_MINUTES"`

	HealthCheckSpec string `mapstructure:"HEALTH_CHECK_SPEC"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "telecare")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_AUTH_DB", 1)
	v.SetDefault("REDIS_REMINDER_QUEUE_DB", 3)
	v.SetDefault("SLOT_DURATION_MINUTES", 30)
	v.SetDefault("BOOKING_WINDOW_DAYS", 7)
	v.SetDefault("MAX_WINDOW_DAYS", 60)
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("REMINDER_LEAD_MINUTES", 60)
	v.SetDefault("HEALTH_CHECK_SPEC", "@every 1m")
}

// Load reads config.yaml (from "." or "./config") and the environment into a Config.
func Load(v *viper.Viper) (Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig() {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Location resolves TIMEZONE, falling back to UTC.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	AdminKey          string `mapstructure:"ADMIN_KEY"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisOfferDB  int    `mapstructure:"REDIS_OFFER_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Extraction: "heuristic" or "llm" (Gemini delegate with heuristic fallback).
	ExtractionMode string `mapstructure:"EXTRACTION_MODE"`
	GeminiAPIKey   string `mapstructure:"GEMINI_API_KEY"`

	// Calendar: "simulate" or "real" (Google Calendar free/busy + event sync).
	CalendarMode          string `mapstructure:"CALENDAR_MODE"`
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`

	// WhatsApp Cloud API.
	WhatsAppToken       string `mapstructure:"WHATSAPP_TOKEN"`
	WhatsAppPhoneID     string `mapstructure:"WHATSAPP_PHONE_NUMBER_ID"`
	WhatsAppVerifyToken string `mapstructure:"WHATSAPP_VERIFY_TOKEN"`

	// Booking policy.
	BookingInitialStatus string `mapstructure:"BOOKING_INITIAL_STATUS"` // "pending" or "confirmed"
	OfferTTLMin          int    `mapstructure:"OFFER_TTL_MIN"`
	OfferSlotCount       int    `mapstructure:"OFFER_SLOT_COUNT"`
	DefaultDurationMin   int    `mapstructure:"DEFAULT_DURATION_MIN"`
	SearchHorizonDays    int    `mapstructure:"SEARCH_HORIZON_DAYS"`
	WorkdayStartHour     int    `mapstructure:"WORKDAY_START_HOUR"`
	WorkdayEndHour       int    `mapstructure:"WORKDAY_END_HOUR"`
	WeekdaysOnly         bool   `mapstructure:"WEEKDAYS_ONLY"`
	ReminderLeadMin      int    `mapstructure:"REMINDER_LEAD_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_OFFER_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("EXTRACTION_MODE", "heuristic")
	viper.SetDefault("CALENDAR_MODE", "simulate")
	viper.SetDefault("BOOKING_INITIAL_STATUS", "pending")
	viper.SetDefault("OFFER_TTL_MIN", 10)
	viper.SetDefault("OFFER_SLOT_COUNT", 3)
	viper.SetDefault("DEFAULT_DURATION_MIN", 30)
	viper.SetDefault("SEARCH_HORIZON_DAYS", 7)
	viper.SetDefault("WORKDAY_START_HOUR", 9)
	viper.SetDefault("WORKDAY_END_HOUR", 18)
	viper.SetDefault("WEEKDAYS_ONLY", true)
	viper.SetDefault("REMINDER_LEAD_MIN", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

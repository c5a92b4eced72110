package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	BusinessID  string `mapstructure:"BUSINESS_ID"`
	Timezone    string `mapstructure:"TIMEZONE"`

	// Redis configuration.
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB  int    `mapstructure:"REDIS_SESSION_DB"`
	RedisReminderDB int    `mapstructure:"REDIS_REMINDER_DB"`

	// Slot grid and business-hours defaults.
	SlotIntervalMin   int    `mapstructure:"SLOT_INTERVAL_MIN"`
	DefaultOpenTime   string `mapstructure:"DEFAULT_OPEN_TIME"`  // "HH:MM"
	DefaultCloseTime  string `mapstructure:"DEFAULT_CLOSE_TIME"` // "HH:MM"
	SessionTTLMin     int    `mapstructure:"SESSION_TTL_MIN"`
	ReminderLeadMin   int    `mapstructure:"REMINDER_LEAD_MIN"`
	DatePreviewDays   int    `mapstructure:"DATE_PREVIEW_DAYS"`

	// Stripe.
	StripeKey           string `mapstructure:"STRIPE_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	PaymentSuccessURL   string `mapstructure:"PAYMENT_SUCCESS_URL"`
	PaymentCancelURL    string `mapstructure:"PAYMENT_CANCEL_URL"`

	// WhatsApp Cloud API.
	WhatsAppToken       string `mapstructure:"WHATSAPP_TOKEN"`
	WhatsAppPhoneID     string `mapstructure:"WHATSAPP_PHONE_ID"`
	WhatsAppVerifyToken string `mapstructure:"WHATSAPP_VERIFY_TOKEN"`
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
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("TIMEZONE", "America/Argentina/Buenos_Aires")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_REMINDER_DB", 1)
	viper.SetDefault("SLOT_INTERVAL_MIN", 30)
	viper.SetDefault("DEFAULT_OPEN_TIME", "09:00")
	viper.SetDefault("DEFAULT_CLOSE_TIME", "18:00")
	viper.SetDefault("SESSION_TTL_MIN", 30)
	viper.SetDefault("REMINDER_LEAD_MIN", 60)
	viper.SetDefault("DATE_PREVIEW_DAYS", 7)

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

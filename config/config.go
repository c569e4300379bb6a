package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	AdminToken        string `mapstructure:"ADMIN_TOKEN"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisChatDB     int    `mapstructure:"REDIS_CHAT_DB"`
	RedisQueueDB    int    `mapstructure:"REDIS_QUEUE_DB"`
	ChatContextTTL  int    `mapstructure:"CHAT_CONTEXT_TTL_SECONDS"`
	ReminderDelayHr int    `mapstructure:"PAYMENT_REMINDER_DELAY_HOURS"`

	// WhatsApp Cloud API.
	WhatsAppToken       string `mapstructure:"WHATSAPP_ACCESS_TOKEN"`
	WhatsAppPhoneID     string `mapstructure:"WHATSAPP_PHONE_NUMBER_ID"`
	WhatsAppVerifyToken string `mapstructure:"WHATSAPP_WEBHOOK_VERIFY_TOKEN"`
	WhatsAppBaseURL     string `mapstructure:"WHATSAPP_BASE_URL"`

	// M-Pesa Daraja.
	MpesaConsumerKey    string `mapstructure:"MPESA_CONSUMER_KEY"`
	MpesaConsumerSecret string `mapstructure:"MPESA_CONSUMER_SECRET"`
	MpesaShortcode      string `mapstructure:"MPESA_SHORTCODE"`
	MpesaPasskey        string `mapstructure:"MPESA_PASSKEY"`
	MpesaCallbackURL    string `mapstructure:"MPESA_CALLBACK_URL"`
	MpesaBaseURL        string `mapstructure:"MPESA_BASE_URL"`
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
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CHAT_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("CHAT_CONTEXT_TTL_SECONDS", 600)
	viper.SetDefault("PAYMENT_REMINDER_DELAY_HOURS", 6)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "fundis")
	viper.SetDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com/v18.0")
	viper.SetDefault("MPESA_SHORTCODE", "174379")
	viper.SetDefault("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke")

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

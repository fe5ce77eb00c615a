/**
 * @description
 * This file handles configuration management for the API service.
 * It loads settings from environment variables, providing defaults for
 * ports, model ids, schedules, and rate limits.
 */
package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the API service.
type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	RedisURL    string `mapstructure:"REDIS_URL"`
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	AIGatewayURL    string `mapstructure:"AI_GATEWAY_URL"`
	AIGatewayAPIKey string `mapstructure:"AI_GATEWAY_API_KEY"`
	AIVisionModel   string `mapstructure:"AI_VISION_MODEL"`
	AIChatModel     string `mapstructure:"AI_CHAT_MODEL"`
	AIAudioModel    string `mapstructure:"AI_AUDIO_MODEL"`
	AITextModel     string `mapstructure:"AI_TEXT_MODEL"`

	BillingAPIURL          string `mapstructure:"BILLING_API_URL"`
	BillingAPIKey          string `mapstructure:"BILLING_API_KEY"`
	BillingCacheTTLSeconds int    `mapstructure:"BILLING_CACHE_TTL_SECONDS"`

	GCSBucketName string `mapstructure:"GCS_BUCKET_NAME"`

	TrialDays            int `mapstructure:"TRIAL_DAYS"`
	ScanRateLimitPerHour int `mapstructure:"SCAN_RATE_LIMIT_PER_HOUR"`
	ChatRateLimitPerHour int `mapstructure:"CHAT_RATE_LIMIT_PER_HOUR"`

	BillingRevalidationSchedule string `mapstructure:"BILLING_REVALIDATION_SCHEDULE"`
	PremiumSweepSchedule        string `mapstructure:"PREMIUM_SWEEP_SCHEDULE"`

	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("AI_VISION_MODEL", "gemini-2.0-flash")
	viper.SetDefault("AI_CHAT_MODEL", "gemini-2.0-flash")
	viper.SetDefault("AI_AUDIO_MODEL", "gemini-2.0-flash")
	viper.SetDefault("AI_TEXT_MODEL", "gemini-2.0-flash")
	viper.SetDefault("BILLING_CACHE_TTL_SECONDS", 300)
	viper.SetDefault("TRIAL_DAYS", 3)
	viper.SetDefault("SCAN_RATE_LIMIT_PER_HOUR", 20)
	viper.SetDefault("CHAT_RATE_LIMIT_PER_HOUR", 60)
	viper.SetDefault("BILLING_REVALIDATION_SCHEDULE", "0 * * * *")  // At minute 0 of every hour.
	viper.SetDefault("PREMIUM_SWEEP_SCHEDULE", "30 3 * * *")        // At 03:30 daily.
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("AI_GATEWAY_URL")
	_ = viper.BindEnv("AI_GATEWAY_API_KEY")
	_ = viper.BindEnv("AI_VISION_MODEL")
	_ = viper.BindEnv("AI_CHAT_MODEL")
	_ = viper.BindEnv("AI_AUDIO_MODEL")
	_ = viper.BindEnv("AI_TEXT_MODEL")
	_ = viper.BindEnv("BILLING_API_URL")
	_ = viper.BindEnv("BILLING_API_KEY")
	_ = viper.BindEnv("BILLING_CACHE_TTL_SECONDS")
	_ = viper.BindEnv("GCS_BUCKET_NAME")
	_ = viper.BindEnv("TRIAL_DAYS")
	_ = viper.BindEnv("SCAN_RATE_LIMIT_PER_HOUR")
	_ = viper.BindEnv("CHAT_RATE_LIMIT_PER_HOUR")
	_ = viper.BindEnv("BILLING_REVALIDATION_SCHEDULE")
	_ = viper.BindEnv("PREMIUM_SWEEP_SCHEDULE")
	_ = viper.BindEnv("CORS_ALLOWED_ORIGINS")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Email    EmailConfig
	GenAI    GenAIConfig
	Delivery DeliveryConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// EmailConfig holds outbound email gateway configuration
type EmailConfig struct {
	BaseURL   string
	APIKey    string
	FromName  string
	FromEmail string
	MockEmail bool
}

// GenAIConfig holds the text-generation API configuration
type GenAIConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	MockGenAI bool
}

// DeliveryConfig holds campaign delivery pacing configuration
type DeliveryConfig struct {
	MinDelayMs      int // lower bound of inter-message jitter
	MaxDelayMs      int // upper bound of inter-message jitter
	PendingRetryMin int // minutes a log may sit PENDING before recovery retries it
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "xeno-crm")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Email.FromName", "Xeno CRM")
	viper.SetDefault("Email.MockEmail", true)
	viper.SetDefault("GenAI.BaseURL", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("GenAI.Model", "gemini-1.5-flash")
	viper.SetDefault("GenAI.MockGenAI", true)
	viper.SetDefault("Delivery.MinDelayMs", 1000)
	viper.SetDefault("Delivery.MaxDelayMs", 3000)
	viper.SetDefault("Delivery.PendingRetryMin", 10)
	viper.SetDefault("LogLevel", "info")
}

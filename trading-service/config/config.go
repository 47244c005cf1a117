package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string   `mapstructure:"service_name"`
	Env         string   `mapstructure:"env"`
	Port        string   `mapstructure:"port"`
	Database    Database `mapstructure:"database"`
	AWS         AWS      `mapstructure:"aws"`
	Redis       Redis    `mapstructure:"redis"`
	Pricing     Pricing  `mapstructure:"pricing"`
	Telemetry   Tele     `mapstructure:"telemetry"`
}

type Database struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type AWS struct {
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Region          string `mapstructure:"region"`
	SNSTopicArn     string `mapstructure:"sns_topic_arn"`
	SQSQueueURL     string `mapstructure:"sqs_queue_url"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Pricing struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

type Tele struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

func ReadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("TRADING")

	setDefaultsFromEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaultsFromEnv sets defaults from environment variables
func setDefaultsFromEnv() {
	viper.SetDefault("service_name", "trading-service")
	viper.SetDefault("env", getEnv("ENV", "local"))
	viper.SetDefault("port", getEnv("PORT", "8080"))

	viper.SetDefault("database.host", getEnv("DATABASE_HOST", "localhost"))
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", getEnv("DATABASE_USER", "postgres"))
	viper.SetDefault("database.password", getEnv("DATABASE_PASSWORD", "password"))
	viper.SetDefault("database.database", getEnv("DATABASE_NAME", "play_economy"))
	viper.SetDefault("database.ssl_mode", "disable")

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		viper.Set("database.url", dbURL)
	}

	viper.SetDefault("aws.access_key_id", getEnv("AWS_ACCESS_KEY_ID", "test"))
	viper.SetDefault("aws.secret_access_key", getEnv("AWS_SECRET_ACCESS_KEY", "test"))
	viper.SetDefault("aws.region", getEnv("AWS_DEFAULT_REGION", "us-east-1"))
	viper.SetDefault("aws.sns_topic_arn", getEnv("SNS_TOPIC_ARN", "arn:aws:sns:us-east-1:000000000000:play-economy-events"))
	viper.SetDefault("aws.sqs_queue_url", getEnv("SQS_QUEUE_URL", "http://localhost:4566/000000000000/trading-service"))

	viper.SetDefault("redis.addr", getEnv("REDIS_ADDR", "localhost:6379"))
	viper.SetDefault("redis.password", getEnv("REDIS_PASSWORD", ""))
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("pricing.cache_ttl_seconds", 300)

	viper.SetDefault("telemetry.otlp_endpoint", getEnv("OTLP_ENDPOINT", ""))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetDatabaseURL constructs database URL from config
func (c *Config) GetDatabaseURL() string {
	if url := viper.GetString("database.url"); url != "" {
		return url
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// PriceCacheTTL returns the unit price cache lifetime
func (c *Config) PriceCacheTTL() time.Duration {
	return time.Duration(c.Pricing.CacheTTLSeconds) * time.Second
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"loanbook-worker/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-level config
type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	LogLevel string `yaml:"level"`
}

// MongoDB connection config
type MongoConfig struct {
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	URI             string        `yaml:"uri"`
	DBName          string        `yaml:"db_name"`
	MaxPoolSize     uint64        `yaml:"max_pool_size"`
	MinPoolSize     uint64        `yaml:"min_pool_size"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_minutes"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout_seconds"`
}

// Redis connection config
type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	EnableTLS      bool          `yaml:"enable_tls"`
	ConnectTimeout time.Duration `yaml:"connect_timeout_seconds"`
}

// Kafka connection config
type KafkaConfig struct {
	Server           string `yaml:"server"`
	ChargeEventTopic string `yaml:"charge_event_topic"`
	SecurityProtocol string `yaml:"security_protocol"`
	SASLMechanism    string `yaml:"sasl_mechanism"`
	SASLUsername     string `yaml:"sasl_username"`
	SASLPassword     string `yaml:"sasl_password"`
	SessionTimeoutMs int    `yaml:"session_timeout_ms"`
	ClientID         string `yaml:"client_id"`
}

type PubSubConfig struct {
	ProjectID         string `yaml:"project_id"`
	NotificationTopic string `yaml:"notification_topic"`
	Enabled           bool   `yaml:"enabled"`
}

// InterestConfig drives the quarterly interest batch job.
type InterestConfig struct {
	QuarterlyRate      string        `yaml:"quarterly_rate"`
	TriggerSecret      string        `yaml:"trigger_secret"`
	Environment        string        `yaml:"environment"`
	WorkerCount        int           `yaml:"worker_count"`
	BufferSize         int           `yaml:"buffer_size"`
	PerCustomerTimeout time.Duration `yaml:"per_customer_timeout_seconds"`
	SchedulerEnabled   bool          `yaml:"scheduler_enabled"`
	CronSpec           string        `yaml:"cron_spec"`
}

// AppConfig is the main config struct that holds all configs
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	PubSub   PubSubConfig   `yaml:"pubsub"`
	Logging  LogConfig      `yaml:"logging"`
	Interest InterestConfig `yaml:"interest"`
}

func assignDefaultConfigValues(cfg *AppConfig) *AppConfig {
	cfg.Server.Port = GetEnvOrDefaultAsInt("SERVER_PORT", 8080)

	cfg.Logging.LogLevel = GetEnvOrDefaultAsString("LOGGING_LEVEL", cfg.Logging.LogLevel)

	cfg.Mongo.URI = GetEnvOrDefaultAsString("MONGO_URI", cfg.Mongo.URI)
	cfg.Mongo.DBName = GetEnvOrDefaultAsString("MONGO_DB_NAME", cfg.Mongo.DBName)
	cfg.Mongo.Username = GetEnvOrDefaultAsString("MONGO_USERNAME", cfg.Mongo.Username)
	cfg.Mongo.Password = GetEnvOrDefaultAsString("MONGO_PASSWORD", cfg.Mongo.Password)
	cfg.Mongo.MaxPoolSize = GetEnvOrDefaultAsUint64("MONGO_MAX_POOL_SIZE", cfg.Mongo.MaxPoolSize)
	cfg.Mongo.MinPoolSize = GetEnvOrDefaultAsUint64("MONGO_MIN_POOL_SIZE", cfg.Mongo.MinPoolSize)
	cfg.Mongo.MaxConnIdleTime = time.Duration(GetEnvOrDefaultAsInt("MONGO_MAX_CONN_IDLE_MINUTES", 30)) * time.Minute
	cfg.Mongo.ConnectTimeout = time.Duration(GetEnvOrDefaultAsInt("MONGO_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second

	cfg.Redis.Addr = GetEnvOrDefaultAsString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = GetEnvOrDefaultAsString("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = GetEnvOrDefaultAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.EnableTLS = GetEnvOrDefaultAsInt("REDIS_ENABLE_TLS", 0) == 1
	cfg.Redis.ConnectTimeout = time.Duration(GetEnvOrDefaultAsInt("REDIS_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second

	cfg.Kafka.Server = GetEnvOrDefaultAsString("KAFKA_SERVER", cfg.Kafka.Server)
	cfg.Kafka.ChargeEventTopic = GetEnvOrDefaultAsString("KAFKA_CHARGE_EVENT_TOPIC", cfg.Kafka.ChargeEventTopic)
	cfg.Kafka.SecurityProtocol = GetEnvOrDefaultAsString("KAFKA_SECURITY_PROTOCOL", cfg.Kafka.SecurityProtocol)
	cfg.Kafka.SASLMechanism = GetEnvOrDefaultAsString("KAFKA_SASL_MECHANISM", cfg.Kafka.SASLMechanism)
	cfg.Kafka.SASLUsername = GetEnvOrDefaultAsString("KAFKA_SASL_USERNAME", cfg.Kafka.SASLUsername)
	cfg.Kafka.SASLPassword = GetEnvOrDefaultAsString("KAFKA_SASL_PASSWORD", cfg.Kafka.SASLPassword)
	cfg.Kafka.SessionTimeoutMs = GetEnvOrDefaultAsInt("KAFKA_SESSION_TIMEOUT_MS", 15000)
	cfg.Kafka.ClientID = GetEnvOrDefaultAsString("KAFKA_CLIENT_ID", cfg.Kafka.ClientID)

	cfg.PubSub.ProjectID = GetEnvOrDefaultAsString("PROJECT_ID", cfg.PubSub.ProjectID)
	cfg.PubSub.NotificationTopic = GetEnvOrDefaultAsString("PUBSUB_NOTIFICATION_TOPIC", cfg.PubSub.NotificationTopic)

	cfg.Interest.QuarterlyRate = GetEnvOrDefaultAsString("INTEREST_QUARTERLY_RATE", cfg.Interest.QuarterlyRate)
	cfg.Interest.TriggerSecret = GetEnvOrDefaultAsString("INTEREST_TRIGGER_SECRET", cfg.Interest.TriggerSecret)
	cfg.Interest.Environment = GetEnvOrDefaultAsString("ENVIRONMENT", cfg.Interest.Environment)
	cfg.Interest.WorkerCount = GetEnvOrDefaultAsInt("INTEREST_WORKER_COUNT", cfg.Interest.WorkerCount)
	cfg.Interest.BufferSize = GetEnvOrDefaultAsInt("INTEREST_BUFFER_SIZE", cfg.Interest.BufferSize)
	cfg.Interest.PerCustomerTimeout = time.Duration(
		GetEnvOrDefaultAsInt("INTEREST_PER_CUSTOMER_TIMEOUT_SECONDS", 10)) * time.Second
	cfg.Interest.CronSpec = GetEnvOrDefaultAsString("INTEREST_CRON_SPEC", cfg.Interest.CronSpec)

	return cfg
}

// LoadFromConfigFilePath loads and parses a config file into AppConfig.
func LoadFromConfigFilePath(configPath string) (*AppConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		logger.Error("Failed to read config file", err)
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("Failed to unmarshal config", err)
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	defaultCfg := assignDefaultConfigValues(&cfg)

	if err := validateConfig(defaultCfg); err != nil {
		logger.Error("Config validation failed", err)
		return nil, err
	}

	return defaultCfg, nil
}

// LoadFromConfig loads an optional .env file and then the config file
// named by CONFIG_PATH.
func LoadFromConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	configPath := GetEnvOrDefaultAsString("CONFIG_PATH", "configs/config.yaml")
	cfg, err := LoadFromConfigFilePath(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	return cfg, nil
}

func validateConfig(cfg *AppConfig) error {
	if err := validateMongoConfig(cfg.Mongo); err != nil {
		return err
	}
	return validateInterestConfig(cfg.Interest)
}

func validateMongoConfig(mongo MongoConfig) error {
	if mongo.MaxPoolSize > 0 && mongo.MinPoolSize > mongo.MaxPoolSize {
		return fmt.Errorf(
			"mongo.min_pool_size %d must not exceed mongo.max_pool_size %d",
			mongo.MinPoolSize, mongo.MaxPoolSize,
		)
	}
	return nil
}

func validateInterestConfig(interest InterestConfig) error {
	rate, err := decimal.NewFromString(interest.QuarterlyRate)
	if err != nil {
		return fmt.Errorf("interest.quarterly_rate %q is not a decimal: %w", interest.QuarterlyRate, err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("interest.quarterly_rate must not be negative, got %s", rate)
	}
	if interest.WorkerCount <= 0 {
		return fmt.Errorf("interest.worker_count must be positive, got %d", interest.WorkerCount)
	}
	if interest.BufferSize <= 0 {
		return fmt.Errorf("interest.buffer_size must be positive, got %d", interest.BufferSize)
	}
	if interest.PerCustomerTimeout <= 0 {
		return fmt.Errorf("interest.per_customer_timeout_seconds must be positive, got %v", interest.PerCustomerTimeout)
	}
	return nil
}

// QuarterlyRateDecimal parses the configured rate; validateConfig has
// already rejected malformed values by the time callers use this.
func (c InterestConfig) QuarterlyRateDecimal() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.QuarterlyRate)
	return rate
}

// GetEnvOrDefaultAsInt returns the value of the given env variable
// as an int or the default value if not set or invalid.
func GetEnvOrDefaultAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return int(value)
}

// GetEnvOrDefaultAsString returns the value of the given env variable or
// the default value if not set.
func GetEnvOrDefaultAsString(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		if val != "" {
			return val
		}
	}
	return defaultVal
}

func GetEnvOrDefaultAsUint64(key string, defaultValue uint64) uint64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

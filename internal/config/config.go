package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type key string

const (
	KeyUUID    = key("uuid")
	KeyLogger  = key("logger")
	KeyMetrics = key("metrics")
)

type Config struct {
	Service     Service
	Platform    Platform
	Postgres    Postgres
	Redis       Redis
	Kafka       Kafka
	Logger      Logger
	Metrics     Metrics
	Auth        Auth
	TaskService TaskService
	UserService UserService
}

type Service struct {
	Port string `env:"MESSENGER_SERVICE_PORT" env-default:"8080"`
	Name string `env:"MESSENGER_SERVICE_NAME" env-default:"messenger-service"`
}

type Platform struct {
	Env string `env:"PLATFORM_ENV" env-default:"dev"`
}

type Postgres struct {
	User     string `env:"MESSENGER_SERVICE_POSTGRES_USER" env-required:"true"`
	Password string `env:"MESSENGER_SERVICE_POSTGRES_PASSWORD" env-required:"true"`
	Database string `env:"MESSENGER_SERVICE_POSTGRES_DB" env-required:"true"`
	Host     string `env:"MESSENGER_SERVICE_POSTGRES_HOST" env-required:"true"`
	Port     string `env:"MESSENGER_SERVICE_POSTGRES_PORT" env-default:"5432"`
}

type Redis struct {
	Enabled bool   `env:"MESSENGER_SERVICE_REDIS_ENABLED" env-default:"false"`
	Host    string `env:"MESSENGER_SERVICE_REDIS_HOST" env-default:"localhost"`
	Port    string `env:"MESSENGER_SERVICE_REDIS_PORT" env-default:"6379"`
}

type Kafka struct {
	Host      string `env:"KAFKA_HOST"`
	Port      string `env:"KAFKA_PORT"`
	UserTopic string `env:"KAFKA_USER_TOPIC" env-default:"user_updates"`
}

type Logger struct {
	Host string `env:"LOGGER_SERVICE_HOST"`
	Port string `env:"LOGGER_SERVICE_PORT"`
}

type Metrics struct {
	Host string `env:"GRAFANA_HOST"`
	Port int    `env:"GRAFANA_PORT"`
}

type Auth struct {
	JWTSecret string        `env:"MESSENGER_SERVICE_JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `env:"MESSENGER_SERVICE_TOKEN_TTL" env-default:"30m"`
}

type TaskService struct {
	BaseURL string        `env:"TASK_SERVICE_URL"`
	APIKey  string        `env:"TASK_SERVICE_API_KEY"`
	Timeout time.Duration `env:"TASK_SERVICE_TIMEOUT" env-default:"5s"`
}

type UserService struct {
	BaseURL string        `env:"USER_SERVICE_URL"`
	APIKey  string        `env:"USER_SERVICE_API_KEY"`
	Timeout time.Duration `env:"USER_SERVICE_TIMEOUT" env-default:"5s"`
}

func MustLoad() *Config {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		log.Fatalf("failed to read env config: %v", err)
	}
	return cfg
}

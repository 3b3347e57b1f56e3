// Package config предоставляет структуры и функции для парсинга и загрузки конфига relay и клиента
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	HTTPServer              `yaml:"http_server"`
	Processor               `yaml:"processor"`
	Relay                   `yaml:"relay"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	Client                  `yaml:"client"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Processor ключи и адрес платёжного процессора.
// Секретный ключ живёт только на relay и никогда не уходит клиенту.
type Processor struct {
	SecretKey      string `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	PublishableKey string `yaml:"publishable_key" env:"STRIPE_PUBLISHABLE_KEY"`
	WebhookSecret  string `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	APIURL         string `yaml:"api_url" env:"STRIPE_API_URL"`
}

// Relay настройки бизнес-логики relay
type Relay struct {
	MinAmount      int64         `yaml:"min_amount" env-default:"50"`
	RateLimit      float64       `yaml:"rate_limit" env-default:"5"`
	RateBurst      int           `yaml:"rate_burst" env-default:"10"`
	StatusCacheTTL time.Duration `yaml:"status_cache_ttl" env-default:"10m"`
	MigrationsPath string        `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// RabbitMQ подключение к брокеру событий оплаты
type RabbitMQ struct {
	RabbitMQURL string `yaml:"rabbitmq_url" env:"RABBITMQ_URL"`
	Exchange    string `yaml:"exchange" env-default:"payments"`
}

// Client настройки CLI-клиента рукопожатия
type Client struct {
	RelayURL      string        `yaml:"relay_url" env:"RELAY_URL" env-default:"http://localhost:8080"`
	ReturnURL     string        `yaml:"return_url" env-default:"http://localhost:8080/complete"`
	TimeoutClient time.Duration `yaml:"timeoutclient" env-default:"15s"`
	PollInterval  time.Duration `yaml:"poll_interval" env-default:"2s"`
}

// Load читает конфиг из path с переопределением через переменные окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига из CONFIG_PATH, при ошибке завершает процесс
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Processor:\n"+
			"  SecretKey: %s\n"+
			"  PublishableKey: %s\n"+
			"  WebhookSecret: %s\n"+
			"  APIURL: %s\n"+
			"Relay:\n"+
			"  MinAmount: %d\n"+
			"  RateLimit: %g/%d\n"+
			"  StatusCacheTTL: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  Password: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ:\n"+
			"  URL: %s\n"+
			"  Exchange: %s\n"+
			"Client:\n"+
			"  RelayURL: %s\n"+
			"  ReturnURL: %s\n",
		c.Env,
		mask(c.StorageConnectionString),
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		mask(c.SecretKey),
		c.PublishableKey,
		mask(c.WebhookSecret),
		c.APIURL,
		c.MinAmount,
		c.RateLimit,
		c.RateBurst,
		c.StatusCacheTTL,
		c.AddressRedis,
		mask(c.Password),
		c.DB,
		mask(c.RabbitMQURL),
		c.Exchange,
		c.RelayURL,
		c.ReturnURL,
	)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

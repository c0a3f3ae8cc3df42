// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек приложения.
type Config struct {
	Env                     string        `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string        `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	RabbitMQURL             string        `yaml:"rabbitmq_url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries      int           `yaml:"rabbitmq_max_retries" env-default:"5"`
	RabbitMQRetryDelay      time.Duration `yaml:"rabbitmq_retry_delay" env-default:"3s"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	BillingProvider         `yaml:"billing_provider"`
	LLM                     `yaml:"llm"`
	Resolver                `yaml:"resolver"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"0.0.0.0:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// BillingProvider структура с реквизитами платёжного провайдера.
type BillingProvider struct {
	APIURL        string `yaml:"api_url"`
	AccountID     string `yaml:"account_id" env:"BILLING_ACCOUNT_ID"`
	SecretKey     string `yaml:"secret_key" env:"BILLING_SECRET_KEY"`
	WebhookSecret string `yaml:"webhook_secret" env:"BILLING_WEBHOOK_SECRET"`
	SuccessURL    string `yaml:"success_url"`
	CancelURL     string `yaml:"cancel_url"`
	PortalURL     string `yaml:"portal_return_url"`
}

// LLM структура для подключения к языковой модели (генерация имён проектов).
type LLM struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key" env:"LLM_API_KEY"`
	Model   string `yaml:"model" env-default:"gpt-4o-mini"`
}

// Resolver структура для настройки воркера отложенных изменений подписок.
type Resolver struct {
	ScanInterval time.Duration `yaml:"scan_interval" env-default:"1h"`
}

// MustLoad загружает конфиг из файла, путь к которому задан в CONFIG_PATH.
// Завершает процесс при любой ошибке загрузки.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"RabbitMQURL: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"BillingProvider:\n"+
			"  APIURL: %s\n"+
			"LLM:\n"+
			"  BaseURL: %s\n"+
			"  Model: %s\n"+
			"Resolver:\n"+
			"  ScanInterval: %s\n",
		c.Env,
		c.StorageConnectionString,
		c.RabbitMQURL,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.BillingProvider.APIURL,
		c.LLM.BaseURL,
		c.LLM.Model,
		c.ScanInterval,
	)
}

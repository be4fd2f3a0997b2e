package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type OrderConfig struct {
	Env            string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer     `yaml:"http_server"`
	OrderDB        `yaml:"order_db"`
	Redis          `yaml:"redis"`
	KafkaService   `yaml:"kafka"`
	Reconciliation `yaml:"reconciliation"`
	Providers      `yaml:"providers"`
	Admin          `yaml:"admin"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8080"`
}

type OrderDB struct {
	Dsn            string `yaml:"dsn" env:"ORDER_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path"`
}

type Redis struct {
	URL        string        `yaml:"url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	SessionTTL time.Duration `yaml:"session_ttl" env-default:"24h"`
}

type KafkaService struct {
	Host  string `yaml:"host" env-default:"localhost"`
	Port  string `yaml:"port" env-default:"9092"`
	Topic string `yaml:"topic" env-default:"order-events"`
}

type Reconciliation struct {
	// CompleteOnPaid decides whether a successful payment also advances
	// the order to completed, or leaves fulfillment to a separate step.
	CompleteOnPaid bool          `yaml:"complete_on_paid" env-default:"true"`
	PendingTTL     time.Duration `yaml:"pending_ttl" env-default:"24h"`
	WebhookRPS     float64       `yaml:"webhook_rps" env-default:"25"`
	WebhookBurst   int           `yaml:"webhook_burst" env-default:"50"`
}

type Providers struct {
	PayPal  PayPalConfig  `yaml:"paypal"`
	Tilopay TilopayConfig `yaml:"tilopay"`
	Onvopay OnvopayConfig `yaml:"onvopay"`
	Stripe  StripeConfig  `yaml:"stripe"`
}

type PayPalConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BaseURL   string `yaml:"base_url" env-default:"https://api-m.sandbox.paypal.com"`
	ClientID  string `yaml:"client_id" env:"PAYPAL_CLIENT_ID"`
	Secret    string `yaml:"secret" env:"PAYPAL_SECRET"`
	WebhookID string `yaml:"webhook_id" env:"PAYPAL_WEBHOOK_ID"`
}

type TilopayConfig struct {
	Enabled       bool   `yaml:"enabled"`
	BaseURL       string `yaml:"base_url" env-default:"https://app.tilopay.com/api/v1"`
	APIKey        string `yaml:"api_key" env:"TILOPAY_API_KEY"`
	APIUser       string `yaml:"api_user" env:"TILOPAY_API_USER"`
	Password      string `yaml:"password" env:"TILOPAY_PASSWORD"`
	WebhookSecret string `yaml:"webhook_secret" env:"TILOPAY_WEBHOOK_SECRET"`
}

type OnvopayConfig struct {
	Enabled       bool   `yaml:"enabled"`
	BaseURL       string `yaml:"base_url" env-default:"https://api.onvopay.com/v1"`
	SecretKey     string `yaml:"secret_key" env:"ONVOPAY_SECRET_KEY"`
	WebhookSecret string `yaml:"webhook_secret" env:"ONVOPAY_WEBHOOK_SECRET"`
}

type StripeConfig struct {
	Enabled       bool   `yaml:"enabled"`
	SecretKey     string `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	WebhookSecret string `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
}

type Admin struct {
	JWTSecret string `yaml:"jwt_secret" env:"ADMIN_JWT_SECRET"`
}

func MustLoad() *OrderConfig {
	configPath := os.Getenv("ORDER_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("ORDER_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg OrderConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}

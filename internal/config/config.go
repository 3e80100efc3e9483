package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DatabaseConfig reúne os dados de conexão com o Postgres.
type DatabaseConfig struct {
	Host       string
	Port       uint
	Username   string
	Password   string
	Name       string
	SSLDisable bool
	SecretID   string // segredo no AWS Secrets Manager com {username,password}
	MaxOpen    int
	MaxIdle    int
}

type Config struct {
	HTTPAddr string
	DB       DatabaseConfig

	JWTSecret string

	LogLevel  string
	LogFormat string

	CORSOrigins []string

	RateLimitRPS   float64
	RateLimitBurst int

	WebhookURL     string
	WebhookTimeout time.Duration
}

// Load lê o .env (se existir) e depois as variáveis de ambiente.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		DB: DatabaseConfig{
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       uint(getEnvInt("DB_PORT", 5432)),
			Username:   os.Getenv("DB_USERNAME"),
			Password:   os.Getenv("DB_PASSWORD"),
			Name:       getEnv("DB_NAME", "relatorios"),
			SSLDisable: os.Getenv("DB_SSL_MODE_DISABLE") == "true",
			SecretID:   os.Getenv("DB_SECRET_ID"),
			MaxOpen:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdle:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
		},
		JWTSecret:      os.Getenv("JWT_SECRET"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
		WebhookURL:     os.Getenv("WEBHOOK_URL"),
		WebhookTimeout: time.Duration(getEnvInt("WEBHOOK_TIMEOUT_SECONDS", 5)) * time.Second,
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET não definida")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

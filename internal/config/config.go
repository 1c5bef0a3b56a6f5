package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	MinIO  MinIOConfig
	JWT    JWTConfig
	Mail   MailConfig
	Share  ShareConfig
}

type ServerConfig struct {
	Port           string `env:"SERVER_PORT" envDefault:"8080"`
	MaxUploadBytes int    `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

type DBConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"sharein"`
	Password string `env:"DB_PASSWORD" envDefault:"sharein_secret"`
	Name     string `env:"DB_NAME" envDefault:"sharein"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

type MinIOConfig struct {
	Endpoint       string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	PublicEndpoint string `env:"MINIO_PUBLIC_ENDPOINT"`
	AccessKey      string `env:"MINIO_ACCESS_KEY" envDefault:"sharein"`
	SecretKey      string `env:"MINIO_SECRET_KEY" envDefault:"sharein_secret"`
	Bucket         string `env:"MINIO_BUCKET" envDefault:"sharein"`
	Region         string `env:"MINIO_REGION"`
	UseSSL         bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

type JWTConfig struct {
	AccessSecret  string        `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	RefreshSecret string        `env:"REFRESH_TOKEN_SECRET" envDefault:"change-me-too-in-production"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL" envDefault:"8760h"`
}

type MailConfig struct {
	Host     string `env:"MAIL_HOST" envDefault:"localhost"`
	Port     int    `env:"MAIL_PORT" envDefault:"587"`
	Username string `env:"MAIL_USER"`
	Password string `env:"MAIL_PASSWORD"`
	From     string `env:"MAIL_FROM"`
}

type ShareConfig struct {
	// BaseURL is the public-facing prefix for shareable file links.
	BaseURL string `env:"FRONTEND_URL" envDefault:"https://sharein.com"`
}

// Load reads the whole configuration from the environment exactly once.
// A local .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.MinIO.PublicEndpoint == "" {
		cfg.MinIO.PublicEndpoint = cfg.MinIO.Endpoint
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}

	return cfg, nil
}

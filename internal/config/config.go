package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string
	AppPort string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr string

	JWTSecret     string
	AdminUsername string
	AdminPassword string
	InternalKey   string

	UploadDir    string
	PublicOrigin string
	OrderEmail   string
}

// ClientConfig is what the storefront client needs to reach the backend.
type ClientConfig struct {
	AppEnv       string
	APIURL       string
	PublicOrigin string
	OrderEmail   string
	RedisAddr    string
}

const (
	defaultAppPort      = "5000"
	defaultUploadDir    = "uploads"
	defaultAPIURL       = "http://localhost:5000/api"
	defaultPublicOrigin = "http://localhost:5173"
	defaultOrderEmail   = "orders@example.com"
)

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:        os.Getenv("APP_ENV"),
		AppPort:       getEnv("APP_PORT", defaultAppPort),
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        os.Getenv("DB_PORT"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		InternalKey:   os.Getenv("INTERNAL_SECRET_KEY"),
		UploadDir:     getEnv("UPLOAD_DIR", defaultUploadDir),
		PublicOrigin:  getEnv("PUBLIC_ORIGIN", defaultPublicOrigin),
		OrderEmail:    getEnv("ORDER_EMAIL", defaultOrderEmail),
	}

	if cfg.DBHost == "" || cfg.JWTSecret == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func LoadClientConfig() *ClientConfig {
	_ = godotenv.Load()

	return &ClientConfig{
		AppEnv:       os.Getenv("APP_ENV"),
		APIURL:       getEnv("API_URL", defaultAPIURL),
		PublicOrigin: getEnv("PUBLIC_ORIGIN", defaultPublicOrigin),
		OrderEmail:   getEnv("ORDER_EMAIL", defaultOrderEmail),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

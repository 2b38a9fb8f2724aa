package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("ADMIN_USERNAME", "admin")
		t.Setenv("ADMIN_PASSWORD", "pw")
		t.Setenv("INTERNAL_SECRET_KEY", "svc")
		t.Setenv("UPLOAD_DIR", "/tmp/up")
		t.Setenv("PUBLIC_ORIGIN", "https://shop.example")
		t.Setenv("ORDER_EMAIL", "orders@shop.example")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, "secret", cfg.JWTSecret)
		assert.Equal(t, "admin", cfg.AdminUsername)
		assert.Equal(t, "pw", cfg.AdminPassword)
		assert.Equal(t, "svc", cfg.InternalKey)
		assert.Equal(t, "/tmp/up", cfg.UploadDir)
		assert.Equal(t, "https://shop.example", cfg.PublicOrigin)
		assert.Equal(t, "orders@shop.example", cfg.OrderEmail)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("APP_PORT", "")
		t.Setenv("UPLOAD_DIR", "")

		cfg := LoadConfig()

		assert.Equal(t, defaultAppPort, cfg.AppPort)
		assert.Equal(t, defaultUploadDir, cfg.UploadDir)
	})
}

func TestLoadClientConfig(t *testing.T) {
	t.Run("Explicit values", func(t *testing.T) {
		t.Setenv("API_URL", "https://api.shop.example/api")
		t.Setenv("PUBLIC_ORIGIN", "https://shop.example")
		t.Setenv("ORDER_EMAIL", "orders@shop.example")
		t.Setenv("REDIS_ADDR", "redis:6379")

		cfg := LoadClientConfig()

		assert.Equal(t, "https://api.shop.example/api", cfg.APIURL)
		assert.Equal(t, "https://shop.example", cfg.PublicOrigin)
		assert.Equal(t, "orders@shop.example", cfg.OrderEmail)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("API_URL", "")
		t.Setenv("PUBLIC_ORIGIN", "")
		t.Setenv("ORDER_EMAIL", "")

		cfg := LoadClientConfig()

		assert.Equal(t, defaultAPIURL, cfg.APIURL)
		assert.Equal(t, defaultPublicOrigin, cfg.PublicOrigin)
		assert.Equal(t, defaultOrderEmail, cfg.OrderEmail)
	})
}

package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	c := Config{
		App:    AppConfig{Env: "local", Port: 8080},
		DB:     DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "placereview", SSLMode: "disable"},
		Auth:   AuthConfig{JWTSecret: "secret"},
		Cookie: CookieConfig{Secret: "cookie-secret"},
	}
	c.applyDefaults()
	return c
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_OK(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestDefaults(t *testing.T) {
	c := validConfig()
	if c.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h token ttl default, got %v", c.Auth.TokenTTL)
	}
	if c.Cookie.MaxAge != time.Hour {
		t.Fatalf("expected 1h cookie max-age default, got %v", c.Cookie.MaxAge)
	}
	if c.Throttle.Store != ThrottleStoreMemory {
		t.Fatalf("expected memory throttle store default, got %q", c.Throttle.Store)
	}
	if c.Upload.MaxFiles != 3 || c.Upload.MaxFileSize != 2<<20 {
		t.Fatalf("unexpected upload defaults: %+v", c.Upload)
	}
}

func TestValidate_RedisRequiredForRedisStore(t *testing.T) {
	c := validConfig()
	c.Throttle.Store = ThrottleStoreRedis
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for redis store without REDIS_HOST")
	}

	c.Redis = RedisConfig{Host: "localhost", Port: 6379}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	c.DB.SSLMode = ""
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_RejectsUnknownThrottleStore(t *testing.T) {
	c := validConfig()
	c.Throttle.Store = "etcd"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for unknown throttle store")
	}
}

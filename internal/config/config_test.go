package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "")
	cfg := LoadRateLimitConfig()
	if !cfg.Enabled || cfg.Capacity != 60 || cfg.RefillTokens != 1 || cfg.RefillInterval != time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.LocalFallback {
		t.Fatal("local fallback should default to on")
	}
}

func TestLoadRateLimitConfigOverrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_ENABLED", "off")
	cfg := LoadRateLimitConfig()
	if cfg.Enabled {
		t.Fatal("expected disabled")
	}
	if cfg.Capacity != 5 || cfg.RefillInterval != 2*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.TTL != 10*time.Second {
		t.Fatalf("TTL should be raised to 5 refill intervals, got %s", cfg.TTL)
	}
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "bogus")
	cfg := LoadCacheConfig()
	if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] || len(cfg.Methods) != 2 {
		t.Fatalf("methods: %#v", cfg.Methods)
	}
	if cfg.TTL != 30*time.Second {
		t.Fatalf("invalid TTL should fall back to default, got %s", cfg.TTL)
	}
}

func TestLoadQueueConfig(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@mq:5672/")
	cfg := LoadQueueConfig()
	if cfg.URL != "amqp://u:p@mq:5672/" || cfg.Queue != "reservation.created" {
		t.Fatalf("unexpected: %+v", cfg)
	}
}

func TestLocationFallback(t *testing.T) {
	loc, err := Config{Timezone: "Not/AZone"}.Location()
	if err == nil || loc != time.UTC {
		t.Fatalf("expected UTC fallback with error, got %v %v", loc, err)
	}
}

func TestLoadSystemAdminSignup(t *testing.T) {
	for k, v := range map[string]string{
		"APP_ENV": "test", "APP_PORT": "8080", "DB_USER": "root", "DB_HOST": "localhost",
		"DB_PORT": "3306", "DB_NAME": "shop", "JWT_SECRET": "s",
		"ACCESS_TOKEN_TTL_MIN": "15", "REFRESH_TOKEN_TTL_DAYS": "7", "BCRYPT_COST": "4",
	} {
		t.Setenv(k, v)
	}

	t.Setenv("SYSTEM_ADMIN_SIGNUP_ENABLED", "")
	if Load().SystemAdminSignup {
		t.Fatal("system admin sign-up should default to off")
	}
	t.Setenv("SYSTEM_ADMIN_SIGNUP_ENABLED", "true")
	if !Load().SystemAdminSignup {
		t.Fatal("SYSTEM_ADMIN_SIGNUP_ENABLED=true not honoured")
	}
}

package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE", "MAX_ATTEMPTS", "WIN_SCORE", "SESSION_TTL", "NODE_ENV"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Port != "5175" || c.Store != "sqlite" || c.MaxAttempts != 6 || c.WinScore != 98 {
		t.Fatalf("defaults: %+v", c)
	}
	if c.SessionTTL != 24*time.Hour || c.Production {
		t.Fatalf("defaults: %+v", c)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE", "Memory")
	t.Setenv("MAX_ATTEMPTS", "0")
	t.Setenv("WIN_SCORE", "95.5")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("NODE_ENV", "production")
	c := FromEnv()
	if c.Port != "9000" || c.Store != "memory" || c.MaxAttempts != 0 || c.WinScore != 95.5 {
		t.Fatalf("overrides: %+v", c)
	}
	if c.SessionTTL != 90*time.Minute || !c.Production {
		t.Fatalf("overrides: %+v", c)
	}
}

func TestFromEnvBadValuesFallBack(t *testing.T) {
	t.Setenv("MAX_ATTEMPTS", "six")
	t.Setenv("WIN_SCORE", "high")
	t.Setenv("SESSION_TTL", "forever")
	c := FromEnv()
	if c.MaxAttempts != 6 || c.WinScore != 98 || c.SessionTTL != 24*time.Hour {
		t.Fatalf("fallbacks: %+v", c)
	}
}

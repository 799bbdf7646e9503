package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GEMINI_MODEL", "GENAI_CALL_TIMEOUT", "CLASSIFY_CONCURRENCY", "GCS_BUCKET"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.CallTimeout != 30*time.Second {
		t.Errorf("CallTimeout = %v, want 30s", cfg.CallTimeout)
	}
	if cfg.ClassifyConcurrency != 4 {
		t.Errorf("ClassifyConcurrency = %d, want 4", cfg.ClassifyConcurrency)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GENAI_CALL_TIMEOUT", "45s")
	t.Setenv("CLASSIFY_CONCURRENCY", "8")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.CallTimeout != 45*time.Second {
		t.Errorf("CallTimeout = %v, want 45s", cfg.CallTimeout)
	}
	if cfg.ClassifyConcurrency != 8 {
		t.Errorf("ClassifyConcurrency = %d, want 8", cfg.ClassifyConcurrency)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"non-numeric port", func(c *Config) { c.Port = "abc" }, true},
		{"port out of range", func(c *Config) { c.Port = "70000" }, true},
		{"empty model", func(c *Config) { c.Model = "" }, true},
		{"zero timeout", func(c *Config) { c.CallTimeout = 0 }, true},
		{"zero concurrency", func(c *Config) { c.ClassifyConcurrency = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:                "8080",
				Model:               "gemini-2.5-flash",
				CallTimeout:         30 * time.Second,
				ClassifyConcurrency: 4,
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

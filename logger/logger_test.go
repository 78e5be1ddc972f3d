package logger

import (
	"os"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNew(t *testing.T) {
	cfg := &Config{
		Level:  "debug",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "my-service")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "my-service" {
		t.Errorf("expected service 'my-service', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{
		Level:  "invalid-level",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("svc").WithComponent("registry")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "svc" {
		t.Errorf("expected service to be preserved, got %q", l.service)
	}
}

func TestWithInvocation(t *testing.T) {
	l := NewDefault("svc").WithInvocation("inv-123")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected default format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected default output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamps enabled by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Level: "info", Format: "json"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg = Config{Level: "nope", Format: "json"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}

	cfg = Config{Level: "info", Format: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestFields(t *testing.T) {
	m := Fields("function", "F1", "cached", true)
	if m["function"] != "F1" {
		t.Errorf("expected function=F1, got %v", m["function"])
	}
	if m["cached"] != true {
		t.Errorf("expected cached=true, got %v", m["cached"])
	}
}

func TestFields_OddArgs(t *testing.T) {
	m := Fields("only-key")
	if len(m) != 0 {
		t.Errorf("expected empty map for dangling key, got %v", m)
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("resolve", 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", m[FieldDuration])
	}
}

func TestRegistry_GetUnregistered(t *testing.T) {
	l := Get("never-registered")
	if l == nil {
		t.Fatal("expected fallback logger for unregistered name")
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	l := NewDefault("svc").WithComponent("verify")
	Register("verify", l)
	if got := Get("verify"); got != l {
		t.Error("expected registered logger instance")
	}
}

func TestRegistry_SeedComponents(t *testing.T) {
	base := NewDefault("host")
	SeedComponents(base)
	defer func() {
		// later tests may re-register; reset to fallbacks
		for _, c := range []string{ComponentRegistry, ComponentContainer, ComponentVerify} {
			Register(c, GetGlobalLogger().WithComponent(c))
		}
	}()

	for _, c := range []string{ComponentRegistry, ComponentContainer, ComponentVerify} {
		if Get(c) == nil {
			t.Fatalf("expected seeded logger for component %q", c)
		}
	}
	if Get(ComponentRegistry) == Get(ComponentContainer) {
		t.Error("expected distinct loggers per component")
	}
}

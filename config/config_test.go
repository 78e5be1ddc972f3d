package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFileSystem serves in-memory files and records env loads.
type fakeFileSystem struct {
	files     map[string]bool
	envLoaded []string
}

func (f *fakeFileSystem) Exists(path string) bool { return f.files[path] }

func (f *fakeFileSystem) LoadEnv(path string) error {
	f.envLoaded = append(f.envLoaded, path)
	return nil
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "scopekit", s.Name)
	assert.Equal(t, "development", s.Environment)
	assert.True(t, s.Registry.DefaultCaching)
	assert.False(t, s.Tracing.Enabled)
	assert.Equal(t, "info", s.Logging.Level)
	assert.Equal(t, 30, s.Metrics.IntervalSeconds)
	require.NoError(t, s.Validate())
}

func TestSettingsApplyDefaults(t *testing.T) {
	s := Settings{Name: "host"}
	s.ApplyDefaults()

	assert.Equal(t, "development", s.Environment)
	assert.Equal(t, "host", s.Logging.ServiceName)
	assert.Equal(t, "console", s.Logging.Format)
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults pass", func(s *Settings) {}, false},
		{"missing name", func(s *Settings) { s.Name = "" }, true},
		{"bad environment", func(s *Settings) { s.Environment = "qa" }, true},
		{"bad tracing endpoint", func(s *Settings) { s.Tracing.Endpoint = "not a host" }, true},
		{"sample rate above one", func(s *Settings) { s.Tracing.SampleRate = 1.5 }, true},
		{"negative metrics interval", func(s *Settings) { s.Metrics.IntervalSeconds = -1 }, true},
		{"bad logging level", func(s *Settings) { s.Logging.Level = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scopekit.yml")
	content := []byte(`
name: payments-host
environment: production
registry:
  default_caching: false
verify:
  unnecessary_config: true
  directory: /srv/payments
tracing:
  enabled: true
  endpoint: collector:4318
  sample_rate: 0.25
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	s, err := Load(WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, "payments-host", s.Name)
	assert.Equal(t, "production", s.Environment)
	assert.False(t, s.Registry.DefaultCaching)
	assert.True(t, s.Verify.UnnecessaryConfig)
	assert.Equal(t, "/srv/payments", s.Verify.Directory)
	assert.True(t, s.Tracing.Enabled)
	assert.Equal(t, "collector:4318", s.Tracing.Endpoint)
	assert.InDelta(t, 0.25, s.Tracing.SampleRate, 1e-9)
	// Fields the file omits keep their defaults.
	assert.Equal(t, 30, s.Metrics.IntervalSeconds)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scopekit.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: from-file\n"), 0o644))

	t.Setenv("SCOPEKIT_NAME", "from-env")
	t.Setenv("SCOPEKIT_REGISTRY_DEFAULT_CACHING", "false")

	s, err := Load(WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, "from-env", s.Name)
	assert.False(t, s.Registry.DefaultCaching)
}

func TestLoadInvalidSettingsRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scopekit.yml")
	require.NoError(t, os.WriteFile(path, []byte("environment: qa\n"), 0o644))

	_, err := Load(WithConfigFile(path))
	assert.Error(t, err)
}

func TestLoadUsesFakeFileSystem(t *testing.T) {
	fs := &fakeFileSystem{files: map[string]bool{"./.env": true}}

	// The fake reports .env exists; Load must ask it to load the file.
	// No config file exists, so defaults carry through.
	s, err := Load(WithFileSystem(fs))
	require.NoError(t, err)

	assert.Contains(t, fs.envLoaded, "./.env")
	assert.Equal(t, "scopekit", s.Name)
}

func TestRegistryOptionsReflectSettings(t *testing.T) {
	s := DefaultSettings()
	s.Registry.DefaultCaching = false
	s.Tracing.Enabled = true

	opts := s.RegistryOptions()
	assert.Len(t, opts, 3)
}

func TestVerifyOptionsIncludeDirectoryOnlyWhenSet(t *testing.T) {
	s := DefaultSettings()
	assert.Len(t, s.VerifyOptions(), 1)

	s.Verify.Directory = "/tmp/work"
	assert.Len(t, s.VerifyOptions(), 2)
}

func TestTracerAndMeterConfigs(t *testing.T) {
	s := DefaultSettings()
	s.Name = "host"
	s.Version = "1.2.3"
	s.Tracing.Endpoint = "otel:4318"
	s.Metrics.IntervalSeconds = 5

	tc := s.TracerConfig()
	assert.Equal(t, "host", tc.ServiceName)
	assert.Equal(t, "1.2.3", tc.ServiceVersion)
	assert.Equal(t, "otel:4318", tc.Endpoint)

	mc := s.MeterConfig()
	assert.Equal(t, "host", mc.ServiceName)
	assert.Equal(t, int64(5), int64(mc.Interval.Seconds()))
}
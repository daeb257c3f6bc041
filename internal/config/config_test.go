package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		Parser: ParserConfig{URL: "http://localhost:8001"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port out of range", func(c *Config) { c.HTTP.Port = 70000 }},
		{"negative upload size", func(c *Config) { c.Upload.MaxSizeMB = -1 }},
		{"extension without dot", func(c *Config) { c.Upload.AllowedExtensions = []string{"docx"} }},
		{"no parser and no fallback", func(c *Config) { c.Parser.URL = "" }},
		{"negative rps", func(c *Config) { c.Parser.RequestsPerSecond = -1 }},
		{"threshold of one", func(c *Config) { one := 1.0; c.Search.Threshold = &one }},
		{"negative threshold", func(c *Config) { neg := -0.1; c.Search.Threshold = &neg }},
		{"default above max", func(c *Config) { c.Search.DefaultLimit = 200 }},
		{"cache without addrs", func(c *Config) { c.Cache.Enabled = true }},
		{"unknown cache driver", func(c *Config) {
			c.Cache.Enabled = true
			c.Cache.Addrs = []string{"localhost:6379"}
			c.Cache.Driver = "memcached"
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_LocalOnlyParser(t *testing.T) {
	cfg := validConfig()
	cfg.Parser.URL = ""
	cfg.Parser.LocalFallback = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ZeroThresholdAllowed(t *testing.T) {
	cfg := validConfig()
	zero := 0.0
	cfg.Search.Threshold = &zero
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 3000 {
		t.Errorf("expected Port=3000, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Upload.MaxSizeBytes() != 50<<20 {
		t.Errorf("expected 50MB upload limit, got %d", cfg.Upload.MaxSizeBytes())
	}
	if len(cfg.Upload.AllowedExtensions) != 1 || cfg.Upload.AllowedExtensions[0] != ".docx" {
		t.Errorf("unexpected AllowedExtensions %v", cfg.Upload.AllowedExtensions)
	}
	if cfg.Parser.Timeout().Seconds() != 30 {
		t.Errorf("expected 30s parser timeout, got %v", cfg.Parser.Timeout())
	}
	if cfg.Search.Threshold == nil || *cfg.Search.Threshold != 0.1 {
		t.Errorf("expected Threshold=0.1, got %v", cfg.Search.Threshold)
	}
	if cfg.Search.DefaultLimit != 5 || cfg.Search.MaxLimit != 100 {
		t.Errorf("unexpected search limits %d/%d", cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	}
	if cfg.Cache.Driver != "redis" || cfg.Cache.TTL().Hours() != 24 {
		t.Errorf("unexpected cache defaults: %+v", cfg.Cache)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	zero := 0.0
	cfg := Config{
		HTTP:   HTTPConfig{Port: 8080, ReadTimeoutSec: 30, WriteTimeoutSec: 90, ShutdownSec: 5},
		Upload: UploadConfig{MaxSizeMB: 10, AllowedExtensions: []string{".docx", ".doc"}},
		Search: SearchConfig{Threshold: &zero, DefaultLimit: 10, MaxLimit: 20},
		Cache:  CacheConfig{Driver: "valkey", TTLHours: 1},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8080 || cfg.HTTP.WriteTimeoutSec != 90 {
		t.Errorf("http overridden: %+v", cfg.HTTP)
	}
	if cfg.Upload.MaxSizeMB != 10 || len(cfg.Upload.AllowedExtensions) != 2 {
		t.Errorf("upload overridden: %+v", cfg.Upload)
	}
	if *cfg.Search.Threshold != 0 {
		t.Errorf("explicit zero threshold overridden: %v", *cfg.Search.Threshold)
	}
	if cfg.Cache.Driver != "valkey" || cfg.Cache.TTLHours != 1 {
		t.Errorf("cache overridden: %+v", cfg.Cache)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("MATHDOCS_TEST_URL", "http://parser:9000")

	in := []byte("a: ${MATHDOCS_TEST_URL}\nb: ${MATHDOCS_TEST_UNSET:-fallback}\nc: ${MATHDOCS_TEST_UNSET}")
	want := "a: http://parser:9000\nb: fallback\nc: "
	if got := string(expandEnvVars(in)); got != want {
		t.Errorf("expandEnvVars =\n%q\nwant\n%q", got, want)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := "http:\n  port: ${MATHDOCS_TEST_PORT:-4000}\nparser:\n  url: http://localhost:8001\nsearch:\n  threshold: 0.25\n"
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 4000 {
		t.Errorf("Port = %d, want 4000", cfg.HTTP.Port)
	}
	if *cfg.Search.Threshold != 0.25 {
		t.Errorf("Threshold = %v, want 0.25", *cfg.Search.Threshold)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("MATHDOCS_DOTENV_NEW=from-file\nMATHDOCS_DOTENV_SET=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MATHDOCS_DOTENV_SET", "from-env")
	t.Setenv("MATHDOCS_DOTENV_NEW", "")
	os.Unsetenv("MATHDOCS_DOTENV_NEW")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("MATHDOCS_DOTENV_NEW"); got != "from-file" {
		t.Errorf("MATHDOCS_DOTENV_NEW = %q, want from-file", got)
	}
	if got := os.Getenv("MATHDOCS_DOTENV_SET"); got != "from-env" {
		t.Errorf("existing variable overridden: %q", got)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if GetEnv() != "local" {
		t.Errorf("expected local default, got %q", GetEnv())
	}
	t.Setenv("ENV", "prod")
	if GetEnv() != "prod" {
		t.Errorf("expected prod, got %q", GetEnv())
	}
}

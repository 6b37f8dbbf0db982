package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, yamlContent string) {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	writeConfig(t, `
port: "8080"
env: "test"
database:
  host: "db.example.com"
  user: "testuser"
  database: "testdb"
`)

	os.Unsetenv("PGHOST")
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWKS_URL", "")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected Port=9090 (from env), got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("expected Env=production (from env), got %s", cfg.Env)
	}
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("expected Database.Host from YAML, got %s", cfg.Database.Host)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
}

func TestLoad_RequiresAuthScheme(t *testing.T) {
	writeConfig(t, "env: test\n")

	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWKS_URL", "")

	if _, err := Load("v"); err == nil {
		t.Fatal("expected error when neither JWT_SECRET nor jwks_url is set")
	}
}

func TestLoad_RejectsBothAuthSchemes(t *testing.T) {
	writeConfig(t, "env: test\n")

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWKS_URL", "https://auth.example.com/.well-known/jwks.json")

	if _, err := Load("v"); err == nil {
		t.Fatal("expected error when both JWT_SECRET and jwks_url are set")
	}
}

func TestLoad_LLMProviderNeedsModel(t *testing.T) {
	writeConfig(t, `
llm:
  provider: openai
`)

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWKS_URL", "")
	t.Setenv("LLM_MODEL", "")

	if _, err := Load("v"); err == nil {
		t.Fatal("expected error when llm.provider is set without a model")
	}
}

func TestLoad_SecretsOnlyFromEnv(t *testing.T) {
	// yaml:"-" fields must ignore values smuggled into the file.
	writeConfig(t, `
database:
  password: "from-yaml"
`)

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWKS_URL", "")
	t.Setenv("PGPASSWORD", "from-env")

	cfg, err := Load("v")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database.Password != "from-env" {
		t.Errorf("expected password from env, got %q", cfg.Database.Password)
	}
}

func TestConnectionString(t *testing.T) {
	c := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "orza",
		Password: "pw",
		Database: "orza_engine",
		SSLMode:  "disable",
	}
	want := "host=localhost port=5432 user=orza password=pw dbname=orza_engine sslmode=disable"
	if got := c.ConnectionString(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

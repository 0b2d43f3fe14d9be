package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
collector:
  provider: yahoo
  interval: "1d"
  cache: true

storage:
  type: localfs
  path: "/tmp/backlight/data"

runner:
  initial_capital: 50000
  workers: 8
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Runner.InitialCapital != 50000 {
		t.Errorf("expected initial_capital 50000, got %f", cfg.Runner.InitialCapital)
	}

	if cfg.Storage.Type != "localfs" {
		t.Errorf("expected localfs, got %s", cfg.Storage.Type)
	}

	if !cfg.Collector.Cache {
		t.Error("expected cache enabled")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("BACKLIGHT_TEST_S3_SECRET", "sekrit")

	content := []byte(`
storage:
  type: s3
  s3:
    bucket: reports
    region: us-east-1
    secret_key: "${BACKLIGHT_TEST_S3_SECRET}"
`)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Storage.S3.SecretKey != "sekrit" {
		t.Errorf("expected secret_key expanded from env, got %q", cfg.Storage.S3.SecretKey)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Runner.InitialCapital != 100000 {
		t.Errorf("expected default initial_capital 100000, got %f", cfg.Runner.InitialCapital)
	}

	if cfg.Collector.Provider != "yahoo" {
		t.Errorf("expected default provider yahoo, got %s", cfg.Collector.Provider)
	}

	if cfg.Runner.Workers != 4 {
		t.Errorf("expected default workers 4, got %d", cfg.Runner.Workers)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Runner:  RunnerConfig{InitialCapital: 100000, Workers: 4},
				Storage: StorageConfig{Type: "localfs", Path: "data"},
			},
			wantErr: false,
		},
		{
			name: "zero capital",
			cfg: Config{
				Runner: RunnerConfig{InitialCapital: 0, Workers: 4},
			},
			wantErr: true,
		},
		{
			name: "negative capital",
			cfg: Config{
				Runner: RunnerConfig{InitialCapital: -100, Workers: 4},
			},
			wantErr: true,
		},
		{
			name: "zero workers",
			cfg: Config{
				Runner: RunnerConfig{InitialCapital: 100000, Workers: 0},
			},
			wantErr: true,
		},
		{
			name: "s3 without bucket",
			cfg: Config{
				Runner:  RunnerConfig{InitialCapital: 100000, Workers: 4},
				Storage: StorageConfig{Type: "s3", S3: S3Config{Region: "us-east-1"}},
			},
			wantErr: true,
		},
		{
			name: "unknown storage type",
			cfg: Config{
				Runner:  RunnerConfig{InitialCapital: 100000, Workers: 4},
				Storage: StorageConfig{Type: "gcs"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	os.Setenv(key, val)
	defer os.Unsetenv(key)

	if got := getEnvString(key, "default"); got != val {
		t.Errorf("getEnvString() = %q, want %q", got, val)
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "30m", time.Hour, 30 * time.Minute},
		{"ValidSeconds", "90", time.Hour, 90 * time.Second},
		{"Invalid", "invalid", time.Hour, time.Hour},
		{"Empty", "", time.Hour, time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_ENV_BOOL"

	tests := []struct {
		name   string
		envVal string
		want   bool
	}{
		{"False", "false", false},
		{"True", "1", true},
		{"Invalid", "maybe", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvBool(key, true); got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestDefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Skipping test because user home dir cannot be found")
	}

	want := filepath.Join(home, ".config", "cycletrack", "usage.json")
	if got := defaultPath("usage.json"); got != want {
		t.Errorf("defaultPath() = %q, want %q", got, want)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	os.Setenv("CYCLETRACK_STORE_PATH", filepath.Join(tmpDir, "u.json"))
	os.Setenv("CYCLETRACK_DATABASE_PATH", filepath.Join(tmpDir, "h.db"))
	os.Setenv("CYCLETRACK_LOG_PATH", filepath.Join(tmpDir, "t.log"))
	os.Setenv("CYCLETRACK_REFRESH_INTERVAL", "15m")
	defer func() {
		os.Unsetenv("CYCLETRACK_STORE_PATH")
		os.Unsetenv("CYCLETRACK_DATABASE_PATH")
		os.Unsetenv("CYCLETRACK_LOG_PATH")
		os.Unsetenv("CYCLETRACK_REFRESH_INTERVAL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.StorePath != filepath.Join(tmpDir, "u.json") {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
	if cfg.RefreshInterval != 15*time.Minute {
		t.Errorf("RefreshInterval = %v, want 15m", cfg.RefreshInterval)
	}
	if !cfg.Notifications {
		t.Error("Notifications should default to true")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var envKeys = []string{
	"CONFIG_FILE", "TELEGRAM_BOT_TOKEN", "DATABASE_PATH", "LOG_LEVEL", "LOG_FORMAT",
	"ALLOWED_USERS", "MAX_IMAGE_BYTES", "DECODE_WORKERS", "RESULT_GATE_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func defaults(token string) *Config {
	return &Config{
		TelegramBotToken:  token,
		DatabasePath:      DefaultDatabasePath,
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
		MaxImageBytes:     DefaultMaxImageBytes,
		DecodeWorkers:     DefaultDecodeWorkers,
		ResultGateTimeout: DefaultResultGateTimeout,
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name:    "missing token",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name: "token only, defaults applied",
			env:  map[string]string{"TELEGRAM_BOT_TOKEN": "test-token"},
			want: defaults("test-token"),
		},
		{
			name: "all values set",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN":  "tok",
				"DATABASE_PATH":       "/tmp/qr.db",
				"LOG_LEVEL":           "debug",
				"LOG_FORMAT":          "json",
				"ALLOWED_USERS":       "111,222,333",
				"MAX_IMAGE_BYTES":     "1024",
				"DECODE_WORKERS":      "4",
				"RESULT_GATE_TIMEOUT": "30s",
			},
			want: &Config{
				TelegramBotToken:  "tok",
				DatabasePath:      "/tmp/qr.db",
				LogLevel:          "debug",
				LogFormat:         "json",
				AllowedUsers:      []int64{111, 222, 333},
				MaxImageBytes:     1024,
				DecodeWorkers:     4,
				ResultGateTimeout: 30 * time.Second,
			},
		},
		{
			name: "allowed users with spaces",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN": "tok",
				"ALLOWED_USERS":      " 10 , 20 , ",
			},
			want: func() *Config {
				c := defaults("tok")
				c.AllowedUsers = []int64{10, 20}
				return c
			}(),
		},
		{
			name: "invalid user id",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN": "tok",
				"ALLOWED_USERS":      "123,abc",
			},
			wantErr: true,
		},
		{
			name: "invalid workers",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN": "tok",
				"DECODE_WORKERS":     "0",
			},
			wantErr: true,
		},
		{
			name: "invalid gate timeout",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN":  "tok",
				"RESULT_GATE_TIMEOUT": "soon",
			},
			wantErr: true,
		},
		{
			name: "invalid max image bytes",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN": "tok",
				"MAX_IMAGE_BYTES":    "-5",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadLocalWithoutToken(t *testing.T) {
	clearEnv(t)
	got, err := LoadLocal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(defaults(""), got); diff != "" {
		t.Errorf("LoadLocal() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`telegram_bot_token: file-token
database_path: /var/lib/qrscan/qr.db
log_format: pretty
allowed_users: [5, 6]
decode_workers: 3
result_gate_timeout: 45s
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DECODE_WORKERS", "8")

	got, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &Config{
		TelegramBotToken:  "file-token",
		DatabasePath:      "/var/lib/qrscan/qr.db",
		LogLevel:          "warn",
		LogFormat:         "pretty",
		AllowedUsers:      []int64{5, 6},
		MaxImageBytes:     DefaultMaxImageBytes,
		DecodeWorkers:     8,
		ResultGateTimeout: 45 * time.Second,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad yaml", body: "allowed_users: [1, two"},
		{name: "bad duration", body: "result_gate_timeout: forever"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o600); err != nil {
				t.Fatalf("write config: %v", err)
			}
			t.Setenv("CONFIG_FILE", path)
			t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
			if _, err := Load(); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
		if _, err := LoadLocal(); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestIsUserAllowed(t *testing.T) {
	tests := []struct {
		name         string
		allowedUsers []int64
		userID       int64
		want         bool
	}{
		{
			name:         "empty list allows everyone",
			allowedUsers: nil,
			userID:       42,
			want:         true,
		},
		{
			name:         "user in list",
			allowedUsers: []int64{10, 20, 30},
			userID:       20,
			want:         true,
		},
		{
			name:         "user not in list",
			allowedUsers: []int64{10, 20, 30},
			userID:       99,
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AllowedUsers: tt.allowedUsers}
			got := cfg.IsUserAllowed(tt.userID)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("IsUserAllowed() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

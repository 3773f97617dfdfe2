package config

import (
	"os"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VERSE_STORE_URL", "http://127.0.0.1:8080/exist/rest/db/nz/nz.xml")

	cfg := Load()

	if cfg.StoreURL != "http://127.0.0.1:8080/exist/rest/db/nz/nz.xml" {
		t.Errorf("StoreURL = %q", cfg.StoreURL)
	}
	if cfg.StoreTimeout != 5*time.Second {
		t.Errorf("StoreTimeout = %v, want 5s", cfg.StoreTimeout)
	}
	if cfg.StoreMaxBody != 4<<20 {
		t.Errorf("StoreMaxBody = %v, want %v", cfg.StoreMaxBody, 4<<20)
	}
	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.MessagesFile != "" {
		t.Errorf("MessagesFile = %q, want empty", cfg.MessagesFile)
	}
	if cfg.RedisEnabled() {
		t.Error("RedisEnabled() = true without VERSE_REDIS_ADDR")
	}
	if cfg.AllowedHosts != nil || cfg.AllowedCIDRS != nil {
		t.Errorf("access lists should be empty, got hosts=%v cidrs=%v", cfg.AllowedHosts, cfg.AllowedCIDRS)
	}
}

func TestLoadMissingStoreURL(t *testing.T) {
	t.Setenv("VERSE_STORE_URL", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should panic without VERSE_STORE_URL")
		}
	}()
	Load()
}

func TestLoadRedisPasswordRequired(t *testing.T) {
	t.Setenv("VERSE_STORE_URL", "http://store")
	t.Setenv("VERSE_REDIS_ADDR", "localhost:6379")
	t.Setenv("VERSE_REDIS_PASSWORD", "")
	t.Setenv("VERSE_REDIS_PASSWORD_REQUIRED", "true")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should panic when redis password is required but empty")
		}
	}()
	Load()
}

func TestLoadRedisWithoutPassword(t *testing.T) {
	t.Setenv("VERSE_STORE_URL", "http://store")
	t.Setenv("VERSE_REDIS_ADDR", "localhost:6379")
	t.Setenv("VERSE_REDIS_PASSWORD_REQUIRED", "false")

	cfg := Load()
	if !cfg.RedisEnabled() {
		t.Error("RedisEnabled() = false with VERSE_REDIS_ADDR set")
	}
}

func TestLoadRequestTimeoutMustExceedStoreTimeout(t *testing.T) {
	t.Setenv("VERSE_STORE_URL", "http://store")
	t.Setenv("VERSE_STORE_TIMEOUT", "10s")
	t.Setenv("VERSE_REQUEST_TIMEOUT", "5s")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should panic when request timeout <= store timeout")
		}
	}()
	Load()
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", key: "TEST_BOOL", value: "true", def: false, expected: true},
		{name: "false value", key: "TEST_BOOL_FALSE", value: "false", def: true, expected: false},
		{name: "invalid value uses default", key: "TEST_BOOL_INVALID", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", key: "TEST_BOOL_MISSING", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` "10.0.0.0/8", 192.168.1.1 ,, 'verse.domain.ext' `)
	want := []string{"10.0.0.0/8", "192.168.1.1", "verse.domain.ext"}

	if len(got) != len(want) {
		t.Fatalf("splitAndTrim() length = %v, want %v (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitAndTrim()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if splitAndTrim("") != nil {
		t.Error("splitAndTrim(\"\") should be nil")
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "forty-two")

	if got := getenvInt("TEST_INT", 1); got != 42 {
		t.Errorf("getenvInt() = %d, want 42", got)
	}
	if got := getenvInt("TEST_INT_BAD", 7); got != 7 {
		t.Errorf("getenvInt() with invalid value = %d, want default 7", got)
	}
	if _, ok := os.LookupEnv("TEST_INT_UNSET"); ok {
		t.Skip("TEST_INT_UNSET unexpectedly set")
	}
	if got := getenvInt("TEST_INT_UNSET", 3); got != 3 {
		t.Errorf("getenvInt() unset = %d, want 3", got)
	}
}

package core

import (
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("ORTBUILD_TEST_VAR", "value")
	if got := GetEnvOrDefault("ORTBUILD_TEST_VAR", "fallback"); got != "value" {
		t.Errorf("got %q, want %q", got, "value")
	}
	if got := GetEnvOrDefault("ORTBUILD_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("got %q, want %q", got, "fallback")
	}
}

func TestParseIntEnv(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback int
		expected int
	}{
		{"valid integer", "16", 4, 16},
		{"invalid integer", "not-a-number", 4, 4},
		{"empty value", "", 4, 4},
		{"negative", "-1", 4, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("ORTBUILD_TEST_INT", tt.value)
			}
			if got := ParseIntEnv("ORTBUILD_TEST_INT", tt.fallback); got != tt.expected {
				t.Errorf("got %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"ON", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"OFF", false},
		{"garbage", false}, // falls back to default (false)
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ORTBUILD_TEST_BOOL", tt.value)
			if got := ParseBoolEnv("ORTBUILD_TEST_BOOL", false); got != tt.expected {
				t.Errorf("ParseBoolEnv(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

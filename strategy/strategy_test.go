package strategy

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected Strategy
	}{
		// Supported tokens
		{"dynamic token", "dynamic", Dynamic},
		{"static token", "static", Static},
		{"minimal token", "minimal", Minimal},
		{"short help flag", "-h", Help},
		{"long help flag", "--help", Help},
		{"help word", "help", Help},

		// Absent token defaults to dynamic
		{"empty token", "", Dynamic},

		// Unsupported tokens always map to Invalid
		{"bogus token", "bogus", Invalid},
		{"case-sensitive match", "Dynamic", Invalid},
		{"uppercase", "STATIC", Invalid},
		{"leading whitespace", " dynamic", Invalid},
		{"trailing whitespace", "minimal ", Invalid},
		{"partial match", "dyn", Invalid},
		{"help with extra dash", "---help", Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.token)
			if result != tt.expected {
				t.Errorf("Parse(%q) = %v, want %v", tt.token, result, tt.expected)
			}
		})
	}
}

func TestParseEmptyEquivalentToDynamic(t *testing.T) {
	if Parse("") != Parse("dynamic") {
		t.Error("empty token should behave identically to \"dynamic\"")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		strategy Strategy
		expected string
	}{
		{Dynamic, "dynamic"},
		{Static, "static"},
		{Minimal, "minimal"},
		{Help, "help"},
		{Invalid, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.strategy.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsBuild(t *testing.T) {
	buildStrategies := []Strategy{Dynamic, Static, Minimal}
	for _, s := range buildStrategies {
		if !s.IsBuild() {
			t.Errorf("%v.IsBuild() = false, want true", s)
		}
	}

	nonBuild := []Strategy{Help, Invalid}
	for _, s := range nonBuild {
		if s.IsBuild() {
			t.Errorf("%v.IsBuild() = true, want false", s)
		}
	}
}

func TestUsageMentionsAllTokens(t *testing.T) {
	usage := Usage()
	for _, token := range []string{"dynamic", "static", "minimal", "-h", "--help"} {
		if !strings.Contains(usage, token) {
			t.Errorf("usage text missing token %q", token)
		}
	}
}

package core

import (
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		// Zero and small values
		{"zero bytes", 0, "0 B"},
		{"one byte", 1, "1 B"},
		{"512 bytes", 512, "512 B"},
		{"1023 bytes", 1023, "1023 B"},

		// Kilobytes
		{"exactly 1 KB", 1024, "1.00 KB"},
		{"1.5 KB", 1536, "1.50 KB"},

		// Megabytes
		{"exactly 1 MB", 1024 * 1024, "1.00 MB"},
		{"22 MB (typical minimal plugin)", 22 * 1024 * 1024, "22.00 MB"},
		{"110 MB (typical static plugin)", 110 * 1024 * 1024, "110.00 MB"},

		// Gigabytes
		{"exactly 1 GB", 1024 * 1024 * 1024, "1.00 GB"},
		{"1.5 GB", 1536 * 1024 * 1024, "1.50 GB"},

		// Negative values (treated as 0)
		{"negative value", -100, "0 B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatBytes(tt.bytes)
			if result != tt.expected {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, result, tt.expected)
			}
		})
	}
}

package tzfinder

import "testing"

func TestEtcGMT(t *testing.T) {
	tests := []struct {
		lon      float64
		expected string
	}{
		{0.0, "Etc/GMT"},
		{0.1, "Etc/GMT"},
		{-0.1, "Etc/GMT"},
		{7.4, "Etc/GMT"},
		{7.6, "Etc/GMT-1"},
		{-7.6, "Etc/GMT+1"},
		{22.4, "Etc/GMT-1"},
		{22.6, "Etc/GMT-2"},
		{179.9, "Etc/GMT-12"},
		{180.0, "Etc/GMT-12"},
		{-180.0, "Etc/GMT+12"},
	}

	for _, tt := range tests {
		got, err := EtcGMT(tt.lon)
		if err != nil {
			t.Errorf("EtcGMT(%v): unexpected error: %v", tt.lon, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("EtcGMT(%v) = %q, want %q", tt.lon, got, tt.expected)
		}
	}
}

func TestEtcGMTOutOfRange(t *testing.T) {
	if _, err := EtcGMT(181.0); err == nil {
		t.Fatal("EtcGMT(181.0): expected OutOfRangeError, got nil")
	} else if _, ok := err.(*OutOfRangeError); !ok {
		t.Fatalf("EtcGMT(181.0): expected *OutOfRangeError, got %T", err)
	}

	if _, err := EtcGMT(-181.0); err == nil {
		t.Fatal("EtcGMT(-181.0): expected OutOfRangeError, got nil")
	}
}

func TestValidateLonLat(t *testing.T) {
	if err := validateLonLat(0, 0); err != nil {
		t.Errorf("validateLonLat(0, 0): unexpected error: %v", err)
	}
	if err := validateLonLat(181, 0); err == nil {
		t.Error("validateLonLat(181, 0): expected error, got nil")
	}
	if err := validateLonLat(0, 91); err == nil {
		t.Error("validateLonLat(0, 91): expected error, got nil")
	}
}

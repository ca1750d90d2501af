package inputval

import (
	"strings"
	"testing"
)

func TestIsValidGardenKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"back-yard", true},
		{"plot42", true},
		{"a-b-c-d", true},
		{"abcd", true},

		{"", false},
		{"abc", false}, // too short
		{strings.Repeat("a", 65), false},
		{"Back-Yard", false},   // uppercase
		{"back yard", false},   // space
		{"-backyard", false},   // leading hyphen
		{"backyard-", false},   // trailing hyphen
		{"back--yard", false},  // doubled hyphen
		{"back_yard", false},   // underscore
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := IsValidGardenKey(tt.key); got != tt.want {
				t.Errorf("IsValidGardenKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"gardener_1", true},
		{"Ana-Maria", true},
		{"abc", true},

		{"ab", false},
		{strings.Repeat("x", 31), false},
		{"with space", false},
		{"tilde~", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidUsername(tt.name); got != tt.want {
				t.Errorf("IsValidUsername(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user+tag@example.co.uk", true},

		{"", false},
		{"   ", false},
		{"user@", false},
		{"@example.com", false},
		{"User Name <user@example.com>", false},
		{"user @example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidObjectID(t *testing.T) {
	if !IsValidObjectID("64d26aa8c7d1b2a5e8f3a9b1") {
		t.Error("expected valid 24-char hex to pass")
	}
	if IsValidObjectID("not-an-oid") {
		t.Error("expected malformed id to fail")
	}
}

package core

import "testing"

func TestHeaderFromKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"familyIncome", "Family Income"},
		{"createdAt", "Created At"},
		{"income", "Income"},
		{"organizationName", "Organization Name"},
		{"hasTV", "Has T V"},
		{"area51Code", "Area51 Code"},
		{"Income", "Income"},
		{"1stChildAge", "1st Child Age"},
		{"family-income", "Family-income"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := HeaderFromKey(tt.key); got != tt.want {
				t.Errorf("HeaderFromKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestKeyFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Family Income", "familyIncome"},
		{"Organization Name", "organizationName"},
		{"Created At", "createdAt"},
		{"Drinking Water", "drinkingWater"},
		{"Income", "income"},
		{"  Safe   House ", "safeHouse"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := KeyFromHeader(tt.header); got != tt.want {
				t.Errorf("KeyFromHeader(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestHeaderKeyRoundTrip(t *testing.T) {
	keys := []string{
		"familyIncome",
		"nearbyHealthPost",
		"garbageDisposal",
		"hasTV",
		"x",
		"familyUbication",
		"área",
		"1stChildAge",
		"family-income",
		"numberOfKids2ndMarriage",
	}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			if got := KeyFromHeader(HeaderFromKey(key)); got != key {
				t.Errorf("round trip of %q = %q (header %q)", key, got, HeaderFromKey(key))
			}
		})
	}
}

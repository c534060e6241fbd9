package middleware

import "testing"

func TestSecureCompare_MatchingStrings(t *testing.T) {
	if !secureCompare("my-api-key", "my-api-key") {
		t.Error("expected identical strings to compare equal")
	}
}

func TestSecureCompare_DifferentStrings(t *testing.T) {
	if secureCompare("my-api-key", "wrong-key") {
		t.Error("expected different strings to compare unequal")
	}
}

func TestSecureCompare_DifferentLengths(t *testing.T) {
	if secureCompare("short", "a-much-longer-key") {
		t.Error("expected keys of different lengths to compare unequal")
	}
}

func TestSecureCompare_BothEmpty(t *testing.T) {
	if !secureCompare("", "") {
		t.Error("expected two empty strings to compare equal")
	}
}

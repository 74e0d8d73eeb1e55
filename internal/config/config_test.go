package config

import (
	"testing"
	"time"
)

func TestGetenv(t *testing.T) {
	t.Setenv("BIN_TEST_STR", "hello")
	if got := Getenv("BIN_TEST_STR", "fallback"); got != "hello" {
		t.Errorf("Getenv() = %q, want hello", got)
	}
	if got := Getenv("BIN_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("Getenv() = %q, want fallback", got)
	}
	t.Setenv("BIN_TEST_EMPTY", "")
	if got := Getenv("BIN_TEST_EMPTY", "fallback"); got != "fallback" {
		t.Errorf("Getenv() = %q for empty value, want fallback", got)
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("BIN_TEST_INT", "42")
	if got := GetenvInt("BIN_TEST_INT", 7); got != 42 {
		t.Errorf("GetenvInt() = %d, want 42", got)
	}
	if got := GetenvInt("BIN_TEST_UNSET", 7); got != 7 {
		t.Errorf("GetenvInt() = %d, want 7", got)
	}
	t.Setenv("BIN_TEST_BAD_INT", "forty-two")
	if got := GetenvInt("BIN_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("GetenvInt() = %d for malformed value, want 7", got)
	}
}

func TestGetenvFloat(t *testing.T) {
	t.Setenv("BIN_TEST_FLOAT", "2.5")
	if got := GetenvFloat("BIN_TEST_FLOAT", 1.0); got != 2.5 {
		t.Errorf("GetenvFloat() = %v, want 2.5", got)
	}
	t.Setenv("BIN_TEST_BAD_FLOAT", "two.five")
	if got := GetenvFloat("BIN_TEST_BAD_FLOAT", 1.0); got != 1.0 {
		t.Errorf("GetenvFloat() = %v for malformed value, want 1.0", got)
	}
}

func TestGetenvBool(t *testing.T) {
	t.Setenv("BIN_TEST_BOOL", "true")
	if !GetenvBool("BIN_TEST_BOOL", false) {
		t.Error("GetenvBool() = false, want true")
	}
	t.Setenv("BIN_TEST_BAD_BOOL", "yep")
	if GetenvBool("BIN_TEST_BAD_BOOL", false) {
		t.Error("GetenvBool() = true for malformed value, want false")
	}
}

func TestGetenvDuration(t *testing.T) {
	t.Setenv("BIN_TEST_DUR", "90s")
	if got := GetenvDuration("BIN_TEST_DUR", time.Minute); got != 90*time.Second {
		t.Errorf("GetenvDuration() = %v, want 90s", got)
	}
	if got := GetenvDuration("BIN_TEST_UNSET", time.Minute); got != time.Minute {
		t.Errorf("GetenvDuration() = %v, want 1m", got)
	}
	t.Setenv("BIN_TEST_BAD_DUR", "soon")
	if got := GetenvDuration("BIN_TEST_BAD_DUR", time.Minute); got != time.Minute {
		t.Errorf("GetenvDuration() = %v for malformed value, want 1m", got)
	}
}

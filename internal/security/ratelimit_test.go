package security

import (
	"net/http/httptest"
	"testing"
)

func TestRateLimiterBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("expected first request to be allowed")
	}
	if !rl.Allow("1.2.3.4") {
		t.Fatal("expected second request to be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("expected third request to be rejected")
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("expected first IP to be allowed")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("expected second IP to have its own bucket")
	}
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	if ip := GetClientIP(r); ip != "10.0.0.1:1234" {
		t.Fatalf("expected RemoteAddr fallback, got %q", ip)
	}

	r.Header.Set("X-Real-IP", "2.2.2.2")
	if ip := GetClientIP(r); ip != "2.2.2.2" {
		t.Fatalf("expected X-Real-IP, got %q", ip)
	}

	r.Header.Set("X-Forwarded-For", "3.3.3.3")
	if ip := GetClientIP(r); ip != "3.3.3.3" {
		t.Fatalf("expected X-Forwarded-For to win, got %q", ip)
	}
}

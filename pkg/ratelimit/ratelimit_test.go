package ratelimit

import (
	"net/http"
	"testing"
	"time"
)

func TestLimiterAllowsUpToMax(t *testing.T) {
	rl := NewLoginRateLimiter(3, time.Minute)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("attempt %d blocked, want allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("attempt 4 allowed, want blocked")
	}

	// Farklı IP'ler birbirinden bağımsız sayılır
	if !rl.Allow("5.6.7.8") {
		t.Error("different IP blocked")
	}
}

func TestLimiterResetClearsCounter(t *testing.T) {
	rl := NewLoginRateLimiter(2, time.Minute)
	defer rl.Close()

	rl.Allow("1.2.3.4")
	rl.Allow("1.2.3.4")
	if rl.Allow("1.2.3.4") {
		t.Fatal("over-limit attempt allowed")
	}

	// Başarılı login sonrası sayaç sıfırlanır
	rl.Reset("1.2.3.4")
	if !rl.Allow("1.2.3.4") {
		t.Error("attempt after Reset blocked")
	}
}

func TestLimiterWindowRollover(t *testing.T) {
	rl := NewLoginRateLimiter(1, 20*time.Millisecond)
	defer rl.Close()

	rl.Allow("1.2.3.4")
	if rl.Allow("1.2.3.4") {
		t.Fatal("second attempt in window allowed")
	}

	time.Sleep(40 * time.Millisecond)
	if !rl.Allow("1.2.3.4") {
		t.Error("attempt in new window blocked")
	}
}

func TestLimiterRetryAfter(t *testing.T) {
	rl := NewLoginRateLimiter(1, time.Minute)
	defer rl.Close()

	if got := rl.RetryAfterSeconds("1.2.3.4"); got != 0 {
		t.Errorf("RetryAfterSeconds(unknown ip) = %d, want 0", got)
	}

	rl.Allow("1.2.3.4")
	got := rl.RetryAfterSeconds("1.2.3.4")
	if got < 1 || got > 61 {
		t.Errorf("RetryAfterSeconds = %d, want within window", got)
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "10.0.0.1:5432", nil, "10.0.0.1"},
		{"x-real-ip", "10.0.0.1:5432", map[string]string{"X-Real-IP": "2.3.4.5"}, "2.3.4.5"},
		{"x-forwarded-for single", "10.0.0.1:5432", map[string]string{"X-Forwarded-For": "2.3.4.5"}, "2.3.4.5"},
		{"x-forwarded-for list", "10.0.0.1:5432", map[string]string{"X-Forwarded-For": "2.3.4.5, 10.0.0.2"}, "2.3.4.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodPost, "/api/auth/login", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ExtractIP(r); got != tt.want {
				t.Errorf("ExtractIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

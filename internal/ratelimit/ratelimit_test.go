package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newRequest(remoteAddr string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/maeumjangbu.v1.EventService/ExtractRecords", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func TestMiddlewareLimitsPerIP(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 2, time.Minute, nil)
	defer l.Close()

	handler := l.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("10.0.0.1:1234", nil))
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("expected burst of 2 to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected third request to be limited, got %d", codes[2])
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest("10.0.0.1:1234", nil))
	if !strings.Contains(rec.Body.String(), "resource_exhausted") {
		t.Errorf("expected connect error body, got %q", rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}

	// Another client has its own bucket.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest("10.0.0.2:1234", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected other client to pass, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:   "no headers",
			remote: "192.0.2.1:5000",
			want:   "192.0.2.1",
		},
		{
			name:    "forwarded, all proxies trusted",
			remote:  "10.0.0.1:5000",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"},
			want:    "203.0.113.9",
		},
		{
			name:    "forwarded by trusted proxy",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:5000",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9"},
			want:    "203.0.113.9",
		},
		{
			name:    "forwarded by untrusted peer",
			trusted: []string{"10.0.0.1"},
			remote:  "198.51.100.7:5000",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9"},
			want:    "198.51.100.7",
		},
		{
			name:    "real ip fallback",
			remote:  "10.0.0.1:5000",
			headers: map[string]string{"X-Real-IP": "203.0.113.10"},
			want:    "203.0.113.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewIPRateLimiter(rate.Limit(1), 1, time.Minute, tt.trusted)
			defer l.Close()

			if got := l.clientIP(newRequest(tt.remote, tt.headers)); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseCIDR(t *testing.T) {
	if parseCIDR("not-an-ip") != nil {
		t.Error("expected nil for garbage")
	}
	single := parseCIDR("10.0.0.1")
	if single == nil || !single.Contains(parseIP("10.0.0.1")) || single.Contains(parseIP("10.0.0.2")) {
		t.Errorf("single IP should match only itself: %v", single)
	}
	v6 := parseCIDR("::1")
	if v6 == nil || !v6.Contains(parseIP("::1")) {
		t.Errorf("expected ::1 to match: %v", v6)
	}
}

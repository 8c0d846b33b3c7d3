package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-reservation/internal/config"
	"github.com/iliyamo/shop-reservation/internal/utils"
)

const testSecret = "middleware-secret"

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": c.Get(CtxUserID), "role": c.Get(CtxRole)})
	}, JWTAuth(testSecret))

	at, err := utils.NewAccessToken(testSecret, "u-42", "sato", "SHOP_ADMIN", 5)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + at.Token, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := serve(e, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusOK {
				var body map[string]string
				_ = json.Unmarshal(rec.Body.Bytes(), &body)
				if body["user_id"] != "u-42" || body["role"] != "SHOP_ADMIN" {
					t.Fatalf("unexpected context values: %v", body)
				}
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	setRole := func(role string) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if role != "" {
					c.Set(CtxRole, role)
				}
				return next(c)
			}
		}
	}
	for role, want := range map[string]int{
		"SYSTEM_ADMIN": http.StatusOK,
		"SHOP_ADMIN":   http.StatusOK,
		"USER":         http.StatusForbidden,
		"":             http.StatusForbidden,
	} {
		e := echo.New()
		e.GET("/x", okHandler, setRole(role), RequireRole("SYSTEM_ADMIN", "SHOP_ADMIN"))
		if rec := serve(e, httptest.NewRequest(http.MethodGet, "/x", nil)); rec.Code != want {
			t.Errorf("role %q: status = %d, want %d", role, rec.Code, want)
		}
	}
}

type countingObserver struct{ limited, hits, misses int }

func (o *countingObserver) RecordRateLimited() { o.limited++ }
func (o *countingObserver) RecordCacheLookup(hit bool) {
	if hit {
		o.hits++
	} else {
		o.misses++
	}
}

func limitConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "rl",
		LocalFallback:  true,
	}
}

func TestTokenBucketFallsBackToLocalLimiter(t *testing.T) {
	obs := &countingObserver{}
	e := echo.New()
	e.GET("/shops", okHandler, NewTokenBucket(limitConfig(2), nil, obs))

	for i := 0; i < 2; i++ {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/shops", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/shops", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" || rec.Header().Get("X-RateLimit-Limit") != "2" {
		t.Fatalf("missing rate limit headers: %v", rec.Header())
	}
	if obs.limited != 1 {
		t.Fatalf("observer saw %d rejections", obs.limited)
	}
}

func TestLocalLimiterKeysAreIndependent(t *testing.T) {
	e := echo.New()
	e.GET("/shops", okHandler, NewLocalLimiter(limitConfig(1), nil))

	a := httptest.NewRequest(http.MethodGet, "/shops", nil)
	a.RemoteAddr = "10.0.0.1:1234"
	b := httptest.NewRequest(http.MethodGet, "/shops", nil)
	b.RemoteAddr = "10.0.0.2:1234"

	if serve(e, a).Code != http.StatusOK || serve(e, b).Code != http.StatusOK {
		t.Fatal("first request per IP should pass")
	}
	again := httptest.NewRequest(http.MethodGet, "/shops", nil)
	again.RemoteAddr = "10.0.0.1:1234"
	if serve(e, again).Code != http.StatusTooManyRequests {
		t.Fatal("second request from the same IP should be limited")
	}
}

func TestLocalLimiterRefills(t *testing.T) {
	cfg := limitConfig(1)
	cfg.RefillInterval = time.Second
	l := newLocalLimiter(cfg)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if ok, _, _ := l.take("k"); !ok {
		t.Fatal("first take should pass")
	}
	ok, _, retry := l.take("k")
	if ok || retry <= 0 {
		t.Fatalf("second take should be refused with a retry delay, got ok=%v retry=%s", ok, retry)
	}
	now = now.Add(time.Second)
	if ok, _, _ := l.take("k"); !ok {
		t.Fatal("take after refill interval should pass")
	}
}

func TestDisabledLimiterPasses(t *testing.T) {
	cfg := limitConfig(1)
	cfg.Enabled = false
	e := echo.New()
	e.GET("/x", okHandler, NewTokenBucket(cfg, nil, nil))
	for i := 0; i < 3; i++ {
		if rec := serve(e, httptest.NewRequest(http.MethodGet, "/x", nil)); rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}
}

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, got, body, ok := decodePayload(bs)
	if !ok || status != http.StatusOK || got.Get("Content-Type") != "application/json" || string(body) != `{"a":1}` {
		t.Fatalf("decode mismatch: %v %d %v %q", ok, status, got, body)
	}
	if _, _, _, ok := decodePayload([]byte{0, 1}); ok {
		t.Fatal("short payload must not decode")
	}
}

func TestCacheKeyIgnoresQueryOrder(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()
	key := func(target string) string {
		return cacheKeyFrom(cfg, e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder()))
	}
	if key("/v1/shops?a=1&b=2") != key("/v1/shops?b=2&a=1") {
		t.Fatal("query order should not change the key")
	}
	if key("/v1/shops?a=1") == key("/v1/shops?a=2") {
		t.Fatal("different queries must not share a key")
	}
	cfg.KeyStrategy = "route"
	if key("/v1/shops?a=1") != key("/v1/shops?a=2") {
		t.Fatal("route strategy ignores the query")
	}
}

func TestCaptureWriterStopsAtLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("def"))
	if !cw.overflow || cw.buf.Len() != 0 {
		t.Fatalf("expected overflow with empty buffer, got overflow=%v len=%d", cw.overflow, cw.buf.Len())
	}
	if rec.Body.String() != "abcdef" {
		t.Fatalf("client body = %q", rec.Body.String())
	}
}

func TestCacheWithoutRedisIsNoop(t *testing.T) {
	e := echo.New()
	e.GET("/x", okHandler, NewRedisCache(config.CacheConfig{Enabled: true}, nil, nil))
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "" {
		t.Fatalf("unexpected response: %d %v", rec.Code, rec.Header())
	}
}

type statusCounter struct{ statuses []int }

func (s *statusCounter) RecordHTTPStatus(status int) { s.statuses = append(s.statuses, status) }

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	counter := &statusCounter{}

	e := echo.New()
	e.Use(RequestLogger(log, counter))
	e.GET("/ok", okHandler)
	e.GET("/fail", func(c echo.Context) error { return errors.New("boom") })

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatal("request id header missing")
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	if entry["path"] != "/ok" || entry["status"] != float64(200) || entry["user_id"] != "anon" {
		t.Fatalf("unexpected log entry: %v", entry)
	}

	buf.Reset()
	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	req.Header.Set(echo.HeaderXRequestID, "given-id")
	rec = serve(e, req)
	if rec.Code != http.StatusInternalServerError || rec.Header().Get(echo.HeaderXRequestID) != "given-id" {
		t.Fatalf("unexpected response %d %v", rec.Code, rec.Header())
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["level"] != "ERROR" || entry["error"] != "boom" {
		t.Fatalf("unexpected error entry: %v", entry)
	}
	if len(counter.statuses) != 2 || counter.statuses[1] != http.StatusInternalServerError {
		t.Fatalf("statuses = %v", counter.statuses)
	}
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
	"github.com/sangkips/landedcost-api/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", "", time.Hour)
	userID := uuid.New()
	token, err := jwtManager.GenerateAccessToken(userID, "buyer@example.com", nil, []string{"manage-supplier-orders"})
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	router := gin.New()
	router.Use(AuthMiddleware(jwtManager))
	router.GET("/orders", RequirePermission("manage-supplier-orders"), func(c *gin.Context) {
		c.String(http.StatusOK, c.MustGet("user_id").(uuid.UUID).String())
	})
	router.GET("/agencies", RequirePermission("manage-shipping-agencies"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/orders", "", http.StatusUnauthorized},
		{"wrong scheme", "/orders", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "/orders", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", "/orders", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "/orders", "bearer " + token, http.StatusOK},
		{"missing permission", "/agencies", "Bearer " + token, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusOK && tt.path == "/orders" && w.Body.String() != userID.String() {
				t.Errorf("user_id = %q, want %q", w.Body.String(), userID)
			}
		})
	}
}

func withUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func TestUserRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewUserRateLimiter(ctx, RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	alice, bob := uuid.New(), uuid.New()

	newRouter := func(userID uuid.UUID) *gin.Engine {
		r := gin.New()
		r.Use(withUser(userID), rl.Middleware())
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}
	aliceRouter, bobRouter := newRouter(alice), newRouter(bob)

	get := func(r *gin.Engine) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := get(aliceRouter); code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, code)
		}
	}
	if code := get(aliceRouter); code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", code)
	}
	if code := get(bobRouter); code != http.StatusOK {
		t.Errorf("other user status = %d, want 200", code)
	}
}

func TestUserRateLimiter_Cleanup(t *testing.T) {
	rl := NewUserRateLimiter(context.Background(), RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, EntryTTL: time.Minute})
	rl.getLimiter(uuid.New())

	rl.cleanup(time.Now())
	if len(rl.limiters) != 1 {
		t.Fatalf("fresh entry was removed")
	}
	rl.cleanup(time.Now().Add(2 * time.Minute))
	if len(rl.limiters) != 0 {
		t.Errorf("stale entry kept, %d limiters left", len(rl.limiters))
	}
}

type memoryIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemoryIdempotencyRepo() *memoryIdempotencyRepo {
	return &memoryIdempotencyRepo{keys: make(map[string]*entity.IdempotencyKey)}
}

func (r *memoryIdempotencyRepo) GetByKey(_ context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[userID.String()+"/"+key], nil
}

func (r *memoryIdempotencyRepo) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[ikey.UserID.String()+"/"+ikey.Key] = ikey
	return nil
}

func (r *memoryIdempotencyRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, v := range r.keys {
		if v.IsExpired() {
			delete(r.keys, k)
			n++
		}
	}
	return n, nil
}

func TestIdempotencyRequired(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	userID := uuid.New()
	created := 0

	router := gin.New()
	router.Use(withUser(userID))
	router.POST("/supplier-orders", IdempotencyRequired(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		created++
		c.JSON(http.StatusCreated, gin.H{"created": created})
	})

	post := func(key, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/supplier-orders", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := post("", `{"currency":"USD"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing key status = %d, want 400", w.Code)
	}

	first := post("k1", `{"currency":"USD"}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("first status = %d, want 201", first.Code)
	}

	replay := post("k1", `{"currency":"USD"}`)
	if replay.Code != http.StatusCreated {
		t.Fatalf("replay status = %d, want 201", replay.Code)
	}
	if replay.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Error("replay not flagged")
	}
	if replay.Body.String() != first.Body.String() {
		t.Errorf("replay body = %s, want %s", replay.Body.String(), first.Body.String())
	}
	if created != 1 {
		t.Errorf("handler ran %d times, want 1", created)
	}

	if w := post("k1", `{"currency":"EUR"}`); w.Code != http.StatusConflict {
		t.Errorf("reused key with new body status = %d, want 409", w.Code)
	}

	if w := post("k2", `{"currency":"EUR"}`); w.Code != http.StatusCreated || created != 2 {
		t.Errorf("new key status = %d, created = %d", w.Code, created)
	}
}

func TestIdempotencyRequired_ExpiredKey(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	userID := uuid.New()
	now := time.Now()
	created := 0

	router := gin.New()
	router.Use(withUser(userID))
	router.POST("/supplier-orders", IdempotencyRequired(IdempotencyConfig{Repo: repo, Now: func() time.Time { return now }}), func(c *gin.Context) {
		created++
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	post := func() {
		req := httptest.NewRequest(http.MethodPost, "/supplier-orders", strings.NewReader(`{}`))
		req.Header.Set(IdempotencyKeyHeader, "k1")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	post()
	now = now.Add(IdempotencyKeyTTL + time.Minute)
	post()

	if created != 2 {
		t.Errorf("handler ran %d times, want 2 after the key expired", created)
	}
}

func TestLoggerMiddleware_RequestID(t *testing.T) {
	router := gin.New()
	router.Use(LoggerMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Body.String() != "req-123" || w.Header().Get(RequestIDHeader) != "req-123" {
		t.Errorf("request id not propagated: body %q header %q", w.Body.String(), w.Header().Get(RequestIDHeader))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("generated request id %q is not a UUID", w.Header().Get(RequestIDHeader))
	}
}

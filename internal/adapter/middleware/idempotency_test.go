package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const reqID32 = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

func setupEcho(rdb *redis.Client, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(Idempotency(rdb, 30*time.Second, testLogger()))
	e.POST("/payments/:payment_id/pay", handler)
	e.GET("/payments", handler)
	return e
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, reqID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if reqID != "" {
		req.Header.Set("X-Request-Id", reqID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func jsonBody(v any) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func TestIdempotency_BypassOnGET(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	var calls int32
	e := setupEcho(rdb, func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	for i := 0; i < 2; i++ {
		rec := doReq(t, e, http.MethodGet, "/payments", nil, reqID32)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("GET must never be deduplicated, handler ran %d times", calls)
	}
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	var calls int32
	e := setupEcho(rdb, func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	for i := 0; i < 2; i++ {
		doReq(t, e, http.MethodPost, "/payments/p1/pay", jsonBody(map[string]int{"x": 1}), "")
	}
	if calls != 2 {
		t.Fatalf("requests without the header should not be deduplicated, got %d calls", calls)
	}
}

func TestIdempotency_InvalidRequestID(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	e := setupEcho(rdb, func(c echo.Context) error {
		t.Fatalf("handler must not run for an invalid request id")
		return nil
	})

	rec := doReq(t, e, http.MethodPost, "/payments/p1/pay", jsonBody(map[string]int{"x": 1}), "NOT-VALID")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestIdempotency_ReplaysRecordedResponse(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	var calls int32
	e := setupEcho(rdb, func(c echo.Context) error {
		n := atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusOK, map[string]any{"call": n})
	})

	body := map[string]int{"x": 1}
	first := doReq(t, e, http.MethodPost, "/payments/p1/pay", jsonBody(body), reqID32)
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", first.Code)
	}

	second := doReq(t, e, http.MethodPost, "/payments/p1/pay", jsonBody(body), reqID32)
	if second.Code != http.StatusOK {
		t.Fatalf("replay status = %d, want 200", second.Code)
	}
	if calls != 1 {
		t.Fatalf("handler should run once, ran %d times", calls)
	}
	if !strings.Contains(second.Body.String(), `"call":1`) {
		t.Fatalf("replay should carry the first response body, got %q", second.Body.String())
	}
}

func TestIdempotency_ReusedIDWithDifferentBody(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	e := setupEcho(rdb, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	doReq(t, e, http.MethodPost, "/payments/p1/pay", jsonBody(map[string]int{"x": 1}), reqID32)
	rec := doReq(t, e, http.MethodPost, "/payments/p1/pay", jsonBody(map[string]int{"x": 2}), reqID32)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestIdempotency_HandlerErrorReleasesLock(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	var calls int32
	e := setupEcho(rdb, func(c echo.Context) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return errors.New("transient failure")
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	body := map[string]int{"x": 1}
	first := doReq(t, e, http.MethodPost, "/payments/p1/pay", jsonBody(body), reqID32)
	if first.Code != http.StatusInternalServerError {
		t.Fatalf("first status = %d, want 500", first.Code)
	}

	// The failed attempt released the lock, so the retry reaches the handler.
	second := doReq(t, e, http.MethodPost, "/payments/p1/pay", jsonBody(body), reqID32)
	if second.Code != http.StatusOK {
		t.Fatalf("retry status = %d, want 200", second.Code)
	}
	if calls != 2 {
		t.Fatalf("retry should reach the handler, got %d calls", calls)
	}
}

func TestIdempotency_InProgressConflict(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()

	e := setupEcho(rdb, func(c echo.Context) error {
		t.Fatalf("handler must not run while the first attempt holds the lock")
		return nil
	})

	// Simulate a first attempt that is still running: provisional entry with
	// a matching body hash and no recorded response yet.
	body, _ := json.Marshal(map[string]int{"x": 1})
	entry := idempEntry{
		InProgress: true,
		BodySHA256: bodyHash(body),
		RequestID:  reqID32,
		CreatedAt:  time.Now().UTC(),
	}
	payload, _ := json.Marshal(entry)
	key := buildKey(http.MethodPost, "/payments/:payment_id/pay", "0", reqID32)
	if err := rdb.Set(context.Background(), key, payload, provisionalLockTTL).Err(); err != nil {
		t.Fatalf("seed lock: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, "/payments/p1/pay", bytes.NewReader(body), reqID32)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
}

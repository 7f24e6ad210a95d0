package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"fintrack-backend/internal/usecase/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const authTestSecret = "middleware-test-secret"

func signToken(t *testing.T, secret, tokenType string, userID uint64, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, user.Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func authEcho(t *testing.T, onNext func(c echo.Context)) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.HideBanner = true
	g := e.Group("", JWTAuth(authTestSecret))
	g.GET("/me", func(c echo.Context) error {
		if onNext != nil {
			onNext(c)
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return e
}

func doAuthReq(e *echo.Echo, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth_ValidAccessToken(t *testing.T) {
	var gotUID uint64
	e := authEcho(t, func(c echo.Context) {
		gotUID, _ = c.Get(ContextUserIDKey).(uint64)
	})

	token := signToken(t, authTestSecret, user.TokenTypeAccess, 42, time.Minute)
	rec := doAuthReq(e, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if gotUID != 42 {
		t.Fatalf("user id not propagated: %d", gotUID)
	}
}

func TestJWTAuth_Rejections(t *testing.T) {
	e := authEcho(t, nil)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", signToken(t, authTestSecret, user.TokenTypeAccess, 42, time.Minute)},
		{"garbage token", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", user.TokenTypeAccess, 42, time.Minute)},
		{"expired", "Bearer " + signToken(t, authTestSecret, user.TokenTypeAccess, 42, -time.Minute)},
		{"refresh token not accepted", "Bearer " + signToken(t, authTestSecret, user.TokenTypeRefresh, 42, time.Minute)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doAuthReq(e, tc.header)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

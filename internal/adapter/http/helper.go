package http

import (
	"strings"

	"github.com/labstack/echo/v4"

	"fintrack-backend/internal/adapter/middleware"
)

func userIDFrom(c echo.Context) (uint64, bool) {
	v, ok := c.Get(middleware.ContextUserIDKey).(uint64)
	return v, ok
}

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

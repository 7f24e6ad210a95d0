package http

import (
	"net/http"
	"time"

	reminderDomain "fintrack-backend/internal/domain/reminder"
	"fintrack-backend/internal/usecase/reminder"

	"github.com/labstack/echo/v4"
)

type ReminderHandler struct{ uc *reminder.Usecase }

func NewReminderHandler(uc *reminder.Usecase) *ReminderHandler { return &ReminderHandler{uc: uc} }

func (h *ReminderHandler) ListReminders(c echo.Context) error {
	uid, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	out, err := h.uc.List(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	if out == nil {
		out = []reminderDomain.Reminder{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReminderHandler) TriggerReminders(c echo.Context) error {
	if _, ok := userIDFrom(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	s, err := h.uc.Dispatch(c.Request().Context(), time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": s.Message(),
		"sent":    s.Sent,
		"failed":  s.Failed,
		"skipped": s.Skipped,
	})
}

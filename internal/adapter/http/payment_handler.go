package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	paymentDomain "fintrack-backend/internal/domain/payment"
	"fintrack-backend/internal/usecase/payment"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

func (h *PaymentHandler) ListPayments(c echo.Context) error {
	uid, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	f := paymentDomain.Filter{
		LoanID: c.QueryParam("loan_id"),
		Status: paymentDomain.Status(c.QueryParam("status")),
	}
	switch f.Status {
	case "", paymentDomain.StatusPending, paymentDomain.StatusOverdue, paymentDomain.StatusPaid:
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status filter"})
	}

	rows, err := h.uc.List(c.Request().Context(), uid, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	if rows == nil {
		rows = []paymentDomain.Payment{}
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *PaymentHandler) MarkPaid(c echo.Context) error {
	uid, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	p, err := h.uc.MarkPaid(c.Request().Context(), uid, c.Param("payment_id"))
	if err != nil {
		switch {
		case errors.Is(err, paymentDomain.ErrAlreadyPaid):
			return c.JSON(http.StatusConflict, ErrorResponse{Error: "payment is already paid"})
		case errors.Is(err, paymentDomain.ErrNotFound):
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Payment marked as paid.",
		"payment": p,
	})
}

func (h *PaymentHandler) TriggerOverdueCheck(c echo.Context) error {
	if _, ok := userIDFrom(c); !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	count, err := h.uc.SweepOverdue(c.Request().Context(), time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Updated %d payments to overdue.", count),
	})
}

package http

import (
	"errors"
	"net/http"
	"time"

	loanDomain "fintrack-backend/internal/domain/loan"
	"fintrack-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	LoanName     string  `json:"loan_name"      validate:"required"`
	LoanType     string  `json:"loan_type"      validate:"required,oneof=Personal Housing Car Education Gold"`
	TotalAmount  float64 `json:"total_amount"   validate:"required,gt=0,dec2"`
	InterestRate float64 `json:"interest_rate"  validate:"gte=0,dec2"`
	TenureMonths int     `json:"tenure_months"  validate:"required,gte=1"`
	// Accept canonical date `YYYY-MM-DD` (aligns with schema DATE)
	StartDate string `json:"start_date"     validate:"required,datetime=2006-01-02"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	uid, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	dto, err := h.uc.Create(c.Request().Context(), uid, loan.CreateLoanInput{
		LoanName:     req.LoanName,
		LoanType:     req.LoanType,
		TotalAmount:  decimal.NewFromFloat(req.TotalAmount).Round(2),
		InterestRate: decimal.NewFromFloat(req.InterestRate).Round(2),
		TenureMonths: req.TenureMonths,
		StartDate:    startDate,
	})
	if err != nil {
		if errors.Is(err, loanDomain.ErrInvalidTerms) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	uid, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	out, err := h.uc.List(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	uid, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	dto, err := h.uc.Get(c.Request().Context(), uid, c.Param("loan_id"))
	if err != nil {
		if errors.Is(err, loanDomain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) DashboardSummary(c echo.Context) error {
	uid, ok := userIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	s, err := h.uc.DashboardSummary(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, s)
}

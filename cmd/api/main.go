package main

import (
	"context"
	"os"
	"time"

	httpadp "fintrack-backend/internal/adapter/http"
	mw "fintrack-backend/internal/adapter/middleware"
	"fintrack-backend/internal/adapter/repository/mysql"
	"fintrack-backend/internal/config"
	paymentDomain "fintrack-backend/internal/domain/payment"
	"fintrack-backend/internal/infrastructure/cache"
	"fintrack-backend/internal/infrastructure/db"
	"fintrack-backend/internal/infrastructure/mail"
	loanUC "fintrack-backend/internal/usecase/loan"
	paymentUC "fintrack-backend/internal/usecase/payment"
	reminderUC "fintrack-backend/internal/usecase/reminder"
	userUC "fintrack-backend/internal/usecase/user"

	"fintrack-backend/internal/scheduler"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Fatalf("failed to migrate schema: %v", err)
	}

	// Repositories + unit of work
	loans := mysql.NewLoanRepository(gdb)
	payments := mysql.NewPaymentRepository(gdb)
	reminders := mysql.NewReminderRepository(gdb)
	users := mysql.NewUserRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	// Usecases
	penaltyRate, err := decimal.NewFromString(cfg.PenaltyRatePct)
	if err != nil {
		logger.Fatalf("invalid PENALTY_RATE_PCT %q: %v", cfg.PenaltyRatePct, err)
	}
	loanUsecase := loanUC.NewUsecase(loans, payments, uow, logger)
	paymentUsecase := paymentUC.NewUsecase(payments, uow, paymentDomain.FlatRatePenalty(penaltyRate), logger)
	notifier := mail.NewSender(cfg, logger)
	reminderUsecase := reminderUC.NewUsecase(
		reminders, payments, loans, users, notifier,
		reminderUC.Window{LookbackDays: cfg.ReminderLookbackDays, LookaheadDays: cfg.ReminderLookaheadDays},
		10*time.Second, logger,
	)
	userUsecase := userUC.NewUsecase(
		users, cfg.JWTSecret,
		time.Duration(cfg.AccessTTLMins)*time.Minute,
		time.Duration(cfg.RefreshTTLHours)*time.Hour,
		logger,
	)

	// Handlers
	h := httpadp.NewHandler()
	loanHandler := httpadp.NewLoanHandler(loanUsecase)
	paymentHandler := httpadp.NewPaymentHandler(paymentUsecase)
	reminderHandler := httpadp.NewReminderHandler(reminderUsecase)
	userHandler := httpadp.NewUserHandler(userUsecase)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	// Public routes
	e.GET("/health", h.Health)
	e.POST("/users/register", userHandler.Register)
	e.POST("/users/login", userHandler.Login)
	e.POST("/users/login/refresh", userHandler.Refresh)

	// Protected routes
	api := e.Group("", mw.JWTAuth(cfg.JWTSecret))
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		api.Use(mw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, logger))
	}

	api.POST("/loans", loanHandler.CreateLoan)
	api.GET("/loans", loanHandler.ListLoans)
	api.GET("/loans/dashboard_summary", loanHandler.DashboardSummary)
	api.GET("/loans/:loan_id", loanHandler.GetLoan)
	api.GET("/payments", paymentHandler.ListPayments)
	api.POST("/payments/:payment_id/mark_paid", paymentHandler.MarkPaid)
	api.POST("/payments/trigger_overdue_check", paymentHandler.TriggerOverdueCheck)
	api.GET("/reminders", reminderHandler.ListReminders)
	api.POST("/reminders/trigger", reminderHandler.TriggerReminders)

	// Background jobs
	jobs := scheduler.New(logger)
	if err := jobs.AddJob(cfg.SweepSpec, "overdue-sweep", func(ctx context.Context) error {
		_, err := paymentUsecase.SweepOverdue(ctx, time.Now())
		return err
	}); err != nil {
		logger.Fatalf("failed to schedule overdue sweep: %v", err)
	}
	if err := jobs.AddJob(cfg.ReminderSpec, "reminder-dispatch", func(ctx context.Context) error {
		_, err := reminderUsecase.Dispatch(ctx, time.Now())
		return err
	}); err != nil {
		logger.Fatalf("failed to schedule reminder dispatch: %v", err)
	}
	jobs.Start()
	defer jobs.Stop()

	addr := ":" + cfg.AppPort
	logger.Infof("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		logger.Fatal(err)
	}
}

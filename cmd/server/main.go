package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lending-ledger/internal/config"
	"lending-ledger/internal/handler"
	"lending-ledger/internal/middleware"
	"lending-ledger/internal/models"
	"lending-ledger/internal/repository"
	"lending-ledger/internal/service"
	"lending-ledger/pkg/currency"
	"lending-ledger/pkg/database"
	"lending-ledger/pkg/logger"
	"lending-ledger/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("lending-ledger")
	if cfg.Environment == "development" {
		log = logger.NewDevelopment("lending-ledger")
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := ensureSchema(db); err != nil {
		log.Fatal("failed to apply schema", zap.Error(err))
	}

	redisClient := redis.NewClient(cfg.RedisURL)
	defer redisClient.Close()

	loc := cfg.Location()

	clientRepo := repository.NewClientRepository(db.DB)
	loanRepo := repository.NewLoanRepository(db.DB)
	paymentRepo := repository.NewPaymentRepository(db.DB)

	loanService := service.NewLoanService(loanRepo, paymentRepo, clientRepo, log, loc)
	clientService := service.NewClientService(clientRepo, loanRepo, log)
	formatter := currency.NewFormatter(cfg.CurrencyLocale, cfg.CurrencySymbol)
	dashboardService := service.NewDashboardService(loanRepo, redisClient, formatter, log, loc)

	loanHandler := handler.NewLoanHandler(loanService, dashboardService, log)
	clientHandler := handler.NewClientHandler(clientService, log)

	router := setupRouter(loanHandler, clientHandler, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting server",
			zap.String("port", cfg.Port),
			zap.String("timezone", cfg.BusinessTimezone))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func setupRouter(loans *handler.LoanHandler, clients *handler.ClientHandler, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		clientRoutes := v1.Group("/clients")
		{
			clientRoutes.POST("", clients.CreateClient)
			clientRoutes.GET("", clients.ListClients)
			clientRoutes.GET("/:id", clients.GetClient)
			clientRoutes.PUT("/:id", clients.UpdateClient)
			clientRoutes.DELETE("/:id", clients.DeleteClient)
		}

		loanRoutes := v1.Group("/loans")
		{
			loanRoutes.POST("", loans.CreateLoan)
			loanRoutes.GET("", loans.ListLoans)
			loanRoutes.GET("/:id", loans.GetLoan)
			loanRoutes.PUT("/:id", loans.UpdateLoan)
			loanRoutes.PUT("/:id/status", loans.UpdateLoanStatus)
			loanRoutes.GET("/:id/schedule", loans.GetSchedule)
			loanRoutes.POST("/:id/payments", loans.RecordPayment)
			loanRoutes.GET("/:id/payments", loans.ListPayments)
		}

		v1.POST("/preview/amortization", loans.PreviewAmortization)
		v1.GET("/dashboard/summary", loans.GetDashboardSummary)
	}

	return router
}

func ensureSchema(db *database.PostgresDB) error {
	for _, schema := range []string{models.ClientSchema, models.LoanSchema, models.PaymentSchema} {
		if _, err := db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

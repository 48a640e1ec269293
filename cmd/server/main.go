// @title Tradebook Billing API
// @version 1.0
// @description Sales invoices, GST totals, customer balances and stock for a textile trading back office.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"tradebook/internal/config"
	"tradebook/internal/email/noop"
	"tradebook/internal/email/ses"
	"tradebook/internal/handler"
	"tradebook/internal/port"
	"tradebook/internal/repository/postgres"
	"tradebook/internal/router"
	"tradebook/internal/service"
	s3storage "tradebook/internal/storage/s3"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log.SetFlags(cfg.Log.Flags())
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	productRepo := postgres.NewProductRepo(db)
	customerRepo := postgres.NewCustomerRepo(db)
	consigneeRepo := postgres.NewConsigneeRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	purchaseRepo := postgres.NewPurchaseInvoiceRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	// Initialize storage; publishing and product photos are off without a bucket
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	} else {
		log.Println("S3 bucket not configured; invoice publishing and product images are disabled")
	}

	emailSender, err := newEmailSender(cfg.Email)
	if err != nil {
		return err
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	registrationSvc := service.NewRegistrationService(userRepo, authSvc, cfg.Billing)
	userSvc := service.NewUserService(userRepo)
	productSvc := service.NewProductService(productRepo, storage, &cfg.S3)
	consigneeSvc := service.NewConsigneeService(consigneeRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, customerRepo, consigneeRepo,
		storage, emailSender, &cfg.S3, cfg.Billing)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, productRepo)
	statsSvc := service.NewStatsService(statsRepo)

	// Initialize handlers
	h := router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc, registrationSvc),
		User:      handler.NewUserHandler(userSvc),
		Product:   handler.NewProductHandler(productSvc),
		Consignee: handler.NewConsigneeHandler(consigneeSvc),
		Customer:  handler.NewCustomerHandler(customerSvc, orderSvc),
		Order:     handler.NewOrderHandler(orderSvc),
		Purchase:  handler.NewPurchaseHandler(purchaseSvc),
		Stats:     handler.NewStatsHandler(statsSvc),
		Health:    handler.NewHealthHandler(db, storage != nil),
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router.Setup(authSvc, h, cfg.CORS.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newEmailSender(cfg config.EmailConfig) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		sender, err := ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		return sender, nil
	case "noop", "":
		return noop.NewNoopSender(), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

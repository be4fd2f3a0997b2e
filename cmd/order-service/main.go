package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/config"
	deliveryhttp "github.com/Zaheeroo/tejidosyami-sub000/internal/delivery/http"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/kafka"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/logger"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/metrics"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/migrate"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/postgres"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/postgres/repository"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/providers"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/providers/onvopay"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/providers/paypal"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/providers/stripe"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/providers/tilopay"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/session"
	usecase "github.com/Zaheeroo/tejidosyami-sub000/internal/usecase/order"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init logging
	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()
	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.OrderDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.OrderDB.MigrationsPath); err != nil {
			logger.Log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Init checkout session store
	redisClient := session.NewRedisClient(cfg.Redis.URL)
	sessions := session.NewStore(redisClient, cfg.Redis.SessionTTL)

	// Init kafka publisher
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := kafka.NewPublisher(brokers, cfg.KafkaService.Topic)
	defer pub.Close()

	// Init payment provider registry
	var adapters []domain.PaymentProvider
	if cfg.Providers.PayPal.Enabled {
		adapters = append(adapters, paypal.New(paypal.Config{
			BaseURL:   cfg.Providers.PayPal.BaseURL,
			ClientID:  cfg.Providers.PayPal.ClientID,
			Secret:    cfg.Providers.PayPal.Secret,
			WebhookID: cfg.Providers.PayPal.WebhookID,
		}))
	}
	if cfg.Providers.Tilopay.Enabled {
		adapters = append(adapters, tilopay.New(tilopay.Config{
			BaseURL:       cfg.Providers.Tilopay.BaseURL,
			APIKey:        cfg.Providers.Tilopay.APIKey,
			APIUser:       cfg.Providers.Tilopay.APIUser,
			Password:      cfg.Providers.Tilopay.Password,
			WebhookSecret: cfg.Providers.Tilopay.WebhookSecret,
		}))
	}
	if cfg.Providers.Onvopay.Enabled {
		adapters = append(adapters, onvopay.New(onvopay.Config{
			BaseURL:       cfg.Providers.Onvopay.BaseURL,
			SecretKey:     cfg.Providers.Onvopay.SecretKey,
			WebhookSecret: cfg.Providers.Onvopay.WebhookSecret,
		}))
	}
	if cfg.Providers.Stripe.Enabled {
		adapters = append(adapters, stripe.New(stripe.Config{
			SecretKey:     cfg.Providers.Stripe.SecretKey,
			WebhookSecret: cfg.Providers.Stripe.WebhookSecret,
		}))
	}
	registry := providers.NewRegistry(adapters...)

	// Init order repo
	orderRepo := repository.NewDefaultOrderRepository(db)
	// Init metrics
	orderMetrics := metrics.NewOrderMetrics()
	// Init order usecase
	uc := usecase.NewDefaultOrderUsecase(
		orderRepo,
		registry,
		sessions,
		pub,
		orderMetrics,
		logger.Log,
		cfg.Reconciliation.CompleteOnPaid,
		cfg.Reconciliation.PendingTTL,
	)

	router := deliveryhttp.NewRouter(cfg, uc, registry, orderMetrics)

	// Auto-cancel orders stuck in pending
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if _, err := uc.CancelExpiredOrders(sweepCtx); err != nil {
					logger.Log.Error("expired order sweep failed", zap.Error(err))
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: router,
	}

	go func() {
		logger.Log.Info("http server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zhengrowth/growth-api/internal/config"
	"github.com/zhengrowth/growth-api/internal/ics"
	"github.com/zhengrowth/growth-api/internal/infra/database"
	"github.com/zhengrowth/growth-api/internal/infra/http/handlers"
	"github.com/zhengrowth/growth-api/internal/infra/http/middleware"
	"github.com/zhengrowth/growth-api/internal/infra/logging"
	"github.com/zhengrowth/growth-api/internal/infra/mail"
	"github.com/zhengrowth/growth-api/internal/infra/queue"
	"github.com/zhengrowth/growth-api/internal/infra/secrets"
	"github.com/zhengrowth/growth-api/internal/infra/worker"
	"github.com/zhengrowth/growth-api/internal/usecase"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("load config", zap.Error(err))
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("build logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Database
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("schema migration", zap.Error(err))
	}

	// 2. Broker
	rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Fatal("rabbitmq", zap.Error(err))
	}
	defer rabbit.Close()

	consumeCh, err := rabbit.Conn.Channel()
	if err != nil {
		logger.Fatal("rabbitmq consumer channel", zap.Error(err))
	}
	defer consumeCh.Close()

	publisher := middleware.CountingPublisher{Next: queue.NewProducer(rabbit.Ch)}

	key, err := cfg.SecretsKeyBytes()
	if err != nil {
		logger.Fatal("secrets key", zap.Error(err))
	}

	organizer := ics.Organizer{
		Name:   "ZhenGrowth Coaching",
		Email:  cfg.MailFrom,
		Domain: cfg.CalendarDomain,
	}

	// 3. Repositories
	leadRepo := database.NewLeadRepository(db)
	offerRepo := database.NewOfferRepository(db)
	pricingRepo := database.NewPricingRepository(db)
	couponRepo := database.NewCouponRepository(db)
	subRepo := database.NewSubscriptionRepository(db)
	lessonRepo := database.NewLessonRepository(db)
	viewRepo := database.NewLessonViewRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	nudgeRepo := database.NewNudgeRepository(db)
	referralRepo := database.NewReferralRepository(db)
	engagementRepo := database.NewEngagementRepository(db)
	contentRepo := database.NewContentRepository(db)
	secretRepo := database.NewSecretRepository(db)

	// 4. Use cases
	captureLeadUC := usecase.NewCaptureLeadUseCase(leadRepo, publisher, logger)
	assignPricingUC := usecase.NewAssignPricingUseCase(pricingRepo)
	couponUC := usecase.NewCouponUseCase(couponRepo, offerRepo)
	checkoutUC := usecase.NewCheckoutUseCase(subRepo, offerRepo, couponRepo, pricingRepo, logger)
	activateSubUC := usecase.NewActivateSubscriptionUseCase(subRepo, offerRepo, referralRepo, publisher, logger)
	paywallUC := usecase.NewPaywallUseCase(lessonRepo, viewRepo, subRepo, offerRepo, cfg.FreeLessonLimit)
	lessonVersionUC := usecase.NewLessonVersionUseCase(lessonRepo)
	bookingUC := usecase.NewBookingUseCase(bookingRepo, publisher, organizer, logger)
	nudgeUC := usecase.NewNudgeUseCase(nudgeRepo, publisher, cfg.NudgeCooldown, logger)
	referralUC := usecase.NewReferralUseCase(referralRepo)
	engagementUC := usecase.NewEngagementUseCase(engagementRepo)
	contentUC := usecase.NewContentCalendarUseCase(contentRepo, publisher, logger)
	secretsUC := usecase.NewSecretsUseCase(secretRepo, secrets.NewBox(key))

	// 5. Background workers
	mailSender := mail.NewEmailSender(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.MailFrom,
		SiteURL:  cfg.SiteURL,
	}, organizer, logger.Named("mail"))

	var wg sync.WaitGroup
	notifications := queue.NewWorker(consumeCh, mailSender, logger.Named("worker"))
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := notifications.Start(ctx, queue.QueueName); err != nil {
			logger.Error("notification worker exited", zap.Error(err))
		}
	}()
	go func() {
		defer wg.Done()
		worker.NewHousekeepingWorker(subRepo, logger.Named("housekeeping")).Start(ctx)
	}()

	// 6. HTTP
	leadHandler := handlers.NewLeadHandler(captureLeadUC)
	leadHandler.TrustedProxies = cfg.TrustedProxies
	defer leadHandler.Close()

	routes := handlers.Routes{
		Health:        handlers.NewHealthHandler(db, rabbit.Conn, version),
		Leads:         leadHandler,
		Offers:        handlers.NewOfferHandler(offerRepo, assignPricingUC),
		Coupons:       handlers.NewCouponHandler(couponUC),
		Checkout:      handlers.NewCheckoutHandler(checkoutUC),
		Subscriptions: handlers.NewSubscriptionHandler(subRepo),
		Webhooks:      handlers.NewWebhookHandler(cfg.WebhookSecret, activateSubUC, logger.Named("webhook")),
		Paywall:       handlers.NewPaywallHandler(paywallUC),
		Lessons:       handlers.NewLessonHandler(lessonRepo, lessonVersionUC),
		Bookings:      handlers.NewBookingHandler(bookingUC),
		Nudges:        handlers.NewNudgeHandler(nudgeUC),
		Referrals:     handlers.NewReferralHandler(referralUC),
		Engagement:    handlers.NewEngagementHandler(engagementUC),
		Content:       handlers.NewContentHandler(contentUC),
		Secrets:       handlers.NewSecretHandler(secretsUC),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.AccessLog(logger.Named("http")))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", handlers.SignatureHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	routes.Register(r, middleware.NewAuthenticator(cfg.JWTSecret, cfg.AdminEmails))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	wg.Wait()
}

package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"wayfare/internal/config"
	"wayfare/internal/db"
	"wayfare/internal/email"
	apihttp "wayfare/internal/http"
	"wayfare/internal/repository"
	"wayfare/internal/service"
	"wayfare/internal/sms"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	tripRepo := repository.NewPgTripRepository(pool)
	bookingRepo := repository.NewPgBookingRepository(pool)
	reviewRepo := repository.NewPgReviewRepository(pool)
	vehicleRepo := repository.NewPgVehicleRepository(pool)
	listingRepo := repository.NewPgListingRepository(pool)
	connectionRepo := repository.NewPgConnectionRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.AppName, cfg.PublicURL, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var smsSender sms.Sender = sms.NewConsoleSender(logger)
	if cfg.SMSGatewayURL != "" {
		sender, err := sms.NewHTTPSender(cfg.SMSGatewayURL, cfg.SMSAccountSID, cfg.SMSAuthToken, cfg.SMSFromNumber, cfg.AppName)
		if err != nil {
			logger.Warn("sms sender init failed", zap.Error(err))
		} else {
			smsSender = sender
		}
	}

	var (
		resendLimiter service.ResendLimiter
		tokenStore    service.RefreshTokenStore
		redisClient   *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			resendLimiter = service.NewRedisResendLimiter(redisClient, 30*time.Minute, 3)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLHours)*time.Hour,
		time.Duration(cfg.JWTRefreshTTLDays)*24*time.Hour,
		tokenStore,
	)

	accountSvc := service.NewAccountService(logger, userRepo, emailSender, smsSender, resendLimiter)
	profileSvc := service.NewProfileService(logger, userRepo, tripRepo, bookingRepo, reviewRepo, vehicleRepo, listingRepo, connectionRepo)

	accountHandler := apihttp.NewAccountHandler(logger, accountSvc, jwtSvc)
	profileHandler := apihttp.NewProfileHandler(logger, profileSvc)
	router := apihttp.NewRouter(logger, jwtSvc, userRepo, accountHandler, profileHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

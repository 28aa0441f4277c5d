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

	"github.com/mossy-p/livestream-gateway/config"
	"github.com/mossy-p/livestream-gateway/internal/accesstoken"
	"github.com/mossy-p/livestream-gateway/internal/handlers"
	"github.com/mossy-p/livestream-gateway/internal/livestream"
	"github.com/mossy-p/livestream-gateway/internal/logging"
	"github.com/mossy-p/livestream-gateway/internal/middleware"
	"github.com/mossy-p/livestream-gateway/internal/redis"
	"github.com/mossy-p/livestream-gateway/internal/twilio"
	"github.com/mossy-p/livestream-gateway/web"
)

func main() {
	if err := run(); err != nil {
		l := logging.L()
		l.Error().Err(err).Msg("livestream gateway exited")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("./config")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "livestream-gateway",
	})
	logger := logging.L()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	client := twilio.New(twilio.Options{
		AccountSID: cfg.Twilio.AccountSID,
		APIKey:     cfg.Twilio.APIKey,
		APISecret:  cfg.Twilio.APISecret,
		VideoURL:   cfg.Twilio.VideoURL,
		MediaURL:   cfg.Twilio.MediaURL,
		Timeout:    cfg.Twilio.Timeout,
	})
	signer := accesstoken.NewSigner(cfg.Twilio.AccountSID, cfg.Twilio.APIKey, cfg.Twilio.APISecret, cfg.Twilio.TokenTTL)

	var opts []livestream.Option
	if cfg.Stream.LockEnabled {
		rdb, err := redis.Connect(context.Background(), cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error().Err(err).Msg("error closing redis connection")
			}
		}()
		logger.Info().Str("host", cfg.Redis.Host).Msg("start-stream lock enabled")
		opts = append(opts, livestream.WithLocker(rdb))
	}

	svc := livestream.NewService(client, signer, livestream.Config{
		RoomName:         cfg.Room.Name,
		MaxParticipants:  cfg.Room.MaxParticipants,
		ComposerIdentity: cfg.Stream.ComposerIdentity,
		LockTTL:          cfg.Stream.LockTTL,
	}, opts...)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.OriginFilter(cfg.AllowedOrigins))

	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", web.Static())

	handlers.NewHandler(svc).RegisterRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", server.Addr).Str("room", svc.RoomName()).Msg("livestream gateway listening")
	return serve(ctx, server, 30*time.Second)
}

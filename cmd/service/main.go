package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/messenger-service/internal/access"
	"github.com/s21platform/messenger-service/internal/advisor"
	"github.com/s21platform/messenger-service/internal/broker"
	"github.com/s21platform/messenger-service/internal/client/task"
	"github.com/s21platform/messenger-service/internal/client/user"
	"github.com/s21platform/messenger-service/internal/config"
	"github.com/s21platform/messenger-service/internal/infra"
	"github.com/s21platform/messenger-service/internal/ingest"
	"github.com/s21platform/messenger-service/internal/ledger"
	"github.com/s21platform/messenger-service/internal/pkg/jwt"
	"github.com/s21platform/messenger-service/internal/pkg/tx"
	"github.com/s21platform/messenger-service/internal/pkg/validator"
	db "github.com/s21platform/messenger-service/internal/repository/postgres"
	"github.com/s21platform/messenger-service/internal/rest"
	"github.com/s21platform/messenger-service/internal/ws"
)

func main() {
	cfg := config.MustLoad()
	logger := logger_lib.New(cfg.Logger.Host, cfg.Logger.Port, cfg.Service.Name, cfg.Platform.Env)

	dbRepo := db.New(cfg)
	defer dbRepo.Close()

	taskClient := task.New(cfg)
	defer taskClient.Close()

	userClient := user.New(cfg)

	vldtr := validator.New()
	jwtGenerator := jwt.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	g, gCtx := errgroup.WithContext(context.Background())

	var brk broker.Broker
	if cfg.Redis.Enabled {
		redisBroker, err := broker.NewRedis(gCtx, net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port))
		if err != nil {
			logger.Error(fmt.Sprintf("failed to connect to redis: %v", err))
			return
		}
		g.Go(func() error {
			return redisBroker.Run(gCtx)
		})
		brk = redisBroker
	} else {
		brk = broker.NewMemory()
	}

	authority := access.New(dbRepo)
	readLedger := ledger.New(dbRepo)
	ingestor := ingest.New(dbRepo, authority, brk, logger)
	taskAdvisor := advisor.New(dbRepo, taskClient, userClient, ingestor, brk, logger)

	gateway := ws.New(jwtGenerator, authority, brk)
	handler := rest.New(dbRepo, userClient, vldtr, jwtGenerator, authority, readLedger, ingestor, taskAdvisor)

	router := chi.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return infra.LoggerHTTP(next, logger)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/ws/{kind}/{threadID}", gateway.Serve)

	router.Route("/api/messenger", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return infra.AuthHTTP(next, jwtGenerator)
		})
		r.Use(func(next http.Handler) http.Handler {
			return tx.TxMiddlewareHTTP(dbRepo)(next)
		})

		r.Post("/channels", handler.CreateChannel)
		r.Post("/channels/{channelID}/join", handler.JoinChannel)
		r.Post("/join-requests/{requestID}/approve", handler.ApproveJoinRequest)
		r.Post("/direct/{userID}", handler.StartDirect)
		r.Post("/threads/{kind}/{threadID}/messages", handler.SendMessage)
		r.Get("/threads/{kind}/{threadID}/messages", handler.GetMessages)
		r.Post("/threads/{kind}/{threadID}/read", handler.MarkRead)
		r.Get("/unread", handler.GetUnread)
		r.Get("/messages/{messageID}/readers", handler.GetMessageReaders)
		r.Delete("/messages/{messageID}", handler.DeleteMessage)
		r.Post("/messages/{messageID}/convert", handler.ConvertMessage)
		r.Get("/connect-token", handler.GetConnectToken)
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Service.Port),
		Handler: router,
	}

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %v", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("server error: %v", err))
	}
}

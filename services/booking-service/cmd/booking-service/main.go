package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/md-rashed-zaman/roombook/libs/config"
	"github.com/md-rashed-zaman/roombook/libs/httpx"
	"github.com/md-rashed-zaman/roombook/libs/kafkax"
	otelx "github.com/md-rashed-zaman/roombook/libs/otel"
	"github.com/md-rashed-zaman/roombook/libs/runtime"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/handlers"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/outbox"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxBodyBytes = 1 << 20

func main() {
	if err := config.LoadDotenv(); err != nil {
		panic(err)
	}
	cfg, err := loadConfig()
	logger := runtime.NewLogger(cfg.Service)
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(cfg.Service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("store init failed", "err", err, "driver", cfg.StoreDriver)
		os.Exit(1)
	}
	defer st.close()

	checks := st.checks
	if st.pending != nil {
		outboxPublisher := outbox.NewPublisher(st.pending, logger, outbox.PublisherConfig{
			Brokers:   cfg.KafkaBrokers,
			PollEvery: cfg.OutboxPoll,
			BatchSize: cfg.OutboxBatch,
		})
		go outboxPublisher.Run(ctx)
		if cfg.KafkaBrokers != "" {
			checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(cfg.KafkaBrokers)})
		}
	}

	var limiter httpx.Limiter
	if cfg.RateLimitPerMin > 0 {
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			defer func() { _ = rdb.Close() }()
			limiter = httpx.NewRedisRateLimiter(rdb, cfg.RateLimitPerMin, time.Minute, cfg.Service)
			checks = append(checks, runtime.ReadyCheck{Name: "redis", Check: httpx.RedisReadyCheck(rdb)})
		} else {
			limiter = httpx.NewRateLimiter(cfg.RateLimitPerMin, time.Minute)
		}
	}

	engine := availability.NewEngine(st.rooms, st.bookings)
	svc := booking.NewService(st.rooms, st.bookings, engine, logger)

	if cfg.GRPCPort != "" {
		if err := startGrpcServer(ctx, logger, cfg.GRPCPort, svc); err != nil {
			logger.Error("grpc server failed to start", "err", err)
		}
	}

	mux := runtime.NewBaseMuxWithReady(checks...)
	handlers.NewBookingHandler(svc, logger).Register(mux)
	handlers.NewRoomHandler(svc, logger).Register(mux)

	var rateLimit httpx.Middleware
	if limiter != nil {
		rateLimit = httpx.RateLimit(limiter, logger, cfg.RateLimitFailOpen)
	}
	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithRecover(func(r *http.Request, v any) {
			logger.Error("panic serving request", "path", r.URL.Path, "panic", v)
		}),
		httpx.WithCORS(httpx.DefaultCORSPolicy(cfg.CORSOrigins)),
		rateLimit,
		httpx.WithBodyLimit(maxBodyBytes),
		httpx.WithTimeout(cfg.RequestTimeout),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "booking")
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if err := runtime.ServeHTTP(ctx, srv, logger.With("store", cfg.StoreDriver), 10*time.Second); err != nil {
		logger.Error("http server error", "err", err)
	}
}

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/md-rashed-zaman/roombook/libs/config"
)

type appConfig struct {
	Service  string
	Port     string
	GRPCPort string

	StoreDriver string
	DatabaseURL string
	AutoMigrate bool
	Seed        bool

	KafkaBrokers string
	OutboxPoll   time.Duration
	OutboxBatch  int

	RedisAddr         string
	RateLimitPerMin   int
	RateLimitFailOpen bool

	CORSOrigins    []string
	RequestTimeout time.Duration
}

func loadConfig() (appConfig, error) {
	cfg := appConfig{
		Service:      config.String("SERVICE_NAME", "booking-service"),
		StoreDriver:  strings.ToLower(config.String("STORE_DRIVER", "postgres")),
		DatabaseURL:  config.String("DATABASE_URL", ""),
		KafkaBrokers: config.String("KAFKA_BROKERS", ""),
		RedisAddr:    config.String("REDIS_ADDR", ""),
		CORSOrigins:  config.List("CORS_ALLOWED_ORIGINS"),
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	cfg.Port, err = config.Port("PORT", "8080")
	collect(err)
	if raw := config.String("GRPC_PORT", "9090"); raw != "off" {
		cfg.GRPCPort, err = config.Port("GRPC_PORT", "9090")
		collect(err)
	}
	cfg.AutoMigrate, err = config.Bool("DB_AUTO_MIGRATE", true)
	collect(err)
	cfg.Seed, err = config.Bool("DB_SEED", true)
	collect(err)
	cfg.OutboxPoll, err = config.Duration("OUTBOX_POLL_INTERVAL", 2*time.Second)
	collect(err)
	cfg.OutboxBatch, err = config.Int("OUTBOX_BATCH_SIZE", 50)
	collect(err)
	cfg.RateLimitPerMin, err = config.Int("RATE_LIMIT_PER_MINUTE", 120)
	collect(err)
	cfg.RateLimitFailOpen, err = config.Bool("RATE_LIMIT_FAIL_OPEN", true)
	collect(err)
	cfg.RequestTimeout, err = config.Duration("REQUEST_TIMEOUT", 10*time.Second)
	collect(err)

	switch cfg.StoreDriver {
	case "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be postgres or memory (got %q)", cfg.StoreDriver))
	}
	return cfg, errors.Join(errs...)
}

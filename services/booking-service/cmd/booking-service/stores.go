package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/md-rashed-zaman/roombook/libs/db"
	"github.com/md-rashed-zaman/roombook/libs/runtime"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/outbox"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/storage"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/storage/memory"
)

type roomStore interface {
	booking.RoomStore
	availability.ZoneResolver
}

type bookingStore interface {
	booking.BookingStore
	availability.BookingLister
}

type stores struct {
	rooms    roomStore
	bookings bookingStore
	// pending is nil for the memory driver, which records no events.
	pending outbox.PendingSource
	checks  []runtime.ReadyCheck
	close   func()
}

func openStores(ctx context.Context, cfg appConfig, logger *slog.Logger) (*stores, error) {
	if cfg.StoreDriver == "memory" {
		logger.Warn("using in-memory store; data is lost on restart")
		s := memory.NewSeeded()
		return &stores{rooms: s, bookings: s, close: func() {}}, nil
	}

	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db connection: %w", err)
	}
	if cfg.AutoMigrate {
		if err := storage.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("schema migrated")
	}
	if cfg.Seed {
		if err := storage.Seed(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	outboxRepo := outbox.NewRepository(pool)
	return &stores{
		rooms:    storage.NewRoomRepository(pool),
		bookings: storage.NewBookingRepository(pool, outboxRepo),
		pending:  outboxRepo,
		checks:   []runtime.ReadyCheck{{Name: "db", Check: db.ReadyCheck(pool)}},
		close:    pool.Close,
	}, nil
}

package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	otelx "github.com/md-rashed-zaman/roombook/libs/otel"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/storage"
)

const (
	MinDurationHours = 1
	MaxDurationHours = 24
)

type RoomStore interface {
	GetRoom(ctx context.Context, code string) (model.Room, error)
	ListRooms(ctx context.Context, f storage.RoomFilter) ([]model.Room, error)
}

// BookingStore persists bookings. CreateBooking and DeleteBooking also record
// the matching domain event in the same transaction.
type BookingStore interface {
	CreateBooking(ctx context.Context, b model.Booking) (model.Booking, error)
	DeleteBooking(ctx context.Context, id int64) (model.Booking, error)
	GetBooking(ctx context.Context, id int64) (model.Booking, error)
	ListBookings(ctx context.Context, f storage.BookingFilter) ([]model.Booking, error)
}

type Availability interface {
	IsRoomAvailable(ctx context.Context, roomCode string, start time.Time, durationHours int) (bool, error)
	AvailableSlots(ctx context.Context, day availability.Day, roomCodes []string) ([]availability.RoomFreeSlots, error)
}

type Service struct {
	rooms    RoomStore
	bookings BookingStore
	engine   Availability
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(rooms RoomStore, bookings BookingStore, engine Availability, logger *slog.Logger) *Service {
	return &Service{
		rooms:    rooms,
		bookings: bookings,
		engine:   engine,
		logger:   logger,
		now:      time.Now,
	}
}

type CreateInput struct {
	Author          string
	StartDateTime   string
	DurationInHours int
	RoomCode        string
}

// CreateBooking validates the request, checks the room is free and stores
// the booking. A taken interval yields *ConflictError with the free slots of
// that day.
func (s *Service) CreateBooking(ctx context.Context, in CreateInput) (model.Booking, error) {
	author := strings.TrimSpace(in.Author)
	if author == "" {
		return model.Booking{}, invalid("author", "is required")
	}

	room, start, err := s.resolveRequest(ctx, in.RoomCode, in.StartDateTime, in.DurationInHours)
	if err != nil {
		return model.Booking{}, err
	}

	ok, err := s.engine.IsRoomAvailable(ctx, room.Code, start, in.DurationInHours)
	if err != nil {
		return model.Booking{}, err
	}
	if !ok {
		return model.Booking{}, s.conflict(ctx, room.Code, start)
	}

	created, err := s.bookings.CreateBooking(ctx, model.Booking{
		Author:          author,
		StartDateTime:   start,
		DurationInHours: in.DurationInHours,
		RoomCode:        room.Code,
		Room:            &room,
	})
	if err != nil {
		if storage.IsConflict(err) {
			s.logger.Warn("booking lost race to a concurrent insert", append([]any{"room_code", room.Code}, otelx.LogAttrs(ctx)...)...)
			return model.Booking{}, s.conflict(ctx, room.Code, start)
		}
		return model.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	created.Room = &room

	s.logger.Info("booking created", append([]any{
		"booking_id", created.ID,
		"room_code", created.RoomCode,
		"start_datetime", created.StartDateTime.Format("2006-01-02T15:04:05"),
		"duration_in_hours", created.DurationInHours,
	}, otelx.LogAttrs(ctx)...)...)
	return created, nil
}

// CheckAvailability runs the same validation as CreateBooking and reports
// whether the interval is free without booking it.
func (s *Service) CheckAvailability(ctx context.Context, roomCode, rawStart string, durationHours int) (bool, error) {
	room, start, err := s.resolveRequest(ctx, roomCode, rawStart, durationHours)
	if err != nil {
		return false, err
	}
	return s.engine.IsRoomAvailable(ctx, room.Code, start, durationHours)
}

// resolveRequest looks the room up first, so an unknown room is reported
// before any field validation, then returns the start as a naive wall clock
// in the room's zone.
func (s *Service) resolveRequest(ctx context.Context, roomCode, rawStart string, durationHours int) (model.Room, time.Time, error) {
	room, err := s.GetRoom(ctx, roomCode)
	if err != nil {
		return model.Room{}, time.Time{}, err
	}

	start, hasOffset, err := ParseDateTime(rawStart)
	if err != nil {
		return model.Room{}, time.Time{}, invalid("start_datetime", "%v", err)
	}
	if hasOffset {
		loc, err := availability.LoadZone(room.Building.TZName)
		if err != nil {
			return model.Room{}, time.Time{}, fmt.Errorf("room %s: %w", room.Code, err)
		}
		start = start.In(loc)
	}
	start = model.Naive(start)

	if !onTheHour(start) {
		return model.Room{}, time.Time{}, invalid("start_datetime", "must be on an hour boundary")
	}
	if durationHours < MinDurationHours || durationHours > MaxDurationHours {
		return model.Room{}, time.Time{}, invalid("duration_in_hours", "must be between %d and %d", MinDurationHours, MaxDurationHours)
	}
	return room, start, nil
}

func (s *Service) conflict(ctx context.Context, roomCode string, start time.Time) error {
	day := availability.DayOf(start)
	slots, err := s.engine.AvailableSlots(ctx, day, []string{roomCode})
	if err != nil {
		return fmt.Errorf("compute free slots for conflict: %w", err)
	}
	cerr := &ConflictError{RoomCode: roomCode, Day: day}
	for _, r := range slots {
		if r.RoomCode == roomCode {
			cerr.FreeSlots = r.FreeSlots
		}
	}
	return cerr
}

func (s *Service) DeleteBooking(ctx context.Context, id int64) error {
	deleted, err := s.bookings.DeleteBooking(ctx, id)
	if err != nil {
		if storage.IsNotFound(err) {
			return fmt.Errorf("%w: %d", ErrBookingNotFound, id)
		}
		return fmt.Errorf("delete booking: %w", err)
	}
	s.logger.Info("booking deleted", append([]any{"booking_id", deleted.ID, "room_code", deleted.RoomCode}, otelx.LogAttrs(ctx)...)...)
	return nil
}

func (s *Service) GetBooking(ctx context.Context, id int64) (model.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		if storage.IsNotFound(err) {
			return model.Booking{}, fmt.Errorf("%w: %d", ErrBookingNotFound, id)
		}
		return model.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

type BookingQuery struct {
	Author   string
	RoomCode string
	// Day is YYYY-MM-DD; empty means today on the server clock.
	Day string
}

func (s *Service) ListBookings(ctx context.Context, q BookingQuery) ([]model.Booking, error) {
	day := availability.DayOf(s.now())
	if raw := strings.TrimSpace(q.Day); raw != "" {
		d, err := availability.ParseDay(raw)
		if err != nil {
			return nil, invalid("day", "%v", err)
		}
		day = d
	}
	bookings, err := s.bookings.ListBookings(ctx, storage.BookingFilter{
		Author:   strings.TrimSpace(q.Author),
		RoomCode: strings.TrimSpace(q.RoomCode),
		From:     day.NaiveStart(),
		To:       day.Next().NaiveStart(),
	})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

type AvailabilityQuery struct {
	TargetDayStart string
	RoomCode       string
	Floor          *int
}

// ComputeAvailabilities returns free slots for one room, the rooms of a
// floor, or every room. TargetDayStart must read 00:00:00 on its own clock;
// its calendar date is the day computed.
func (s *Service) ComputeAvailabilities(ctx context.Context, q AvailabilityQuery) ([]availability.RoomFreeSlots, error) {
	raw := strings.TrimSpace(q.TargetDayStart)
	if raw == "" {
		return nil, invalid("target_day_start", "is required")
	}
	t, _, err := ParseDateTime(raw)
	if err != nil {
		return nil, invalid("target_day_start", "%v", err)
	}
	if !atMidnight(t) {
		return nil, invalid("target_day_start", "must be the start of a day (00:00:00)")
	}
	day := availability.DayOf(t)

	var codes []string
	switch code := strings.TrimSpace(q.RoomCode); {
	case code != "":
		room, err := s.GetRoom(ctx, code)
		if err != nil {
			return nil, err
		}
		codes = []string{room.Code}
	default:
		rooms, err := s.rooms.ListRooms(ctx, storage.RoomFilter{Floor: q.Floor})
		if err != nil {
			return nil, fmt.Errorf("list rooms: %w", err)
		}
		for _, r := range rooms {
			codes = append(codes, r.Code)
		}
	}
	if len(codes) == 0 {
		return []availability.RoomFreeSlots{}, nil
	}
	return s.engine.AvailableSlots(ctx, day, codes)
}

func (s *Service) ListRooms(ctx context.Context, f storage.RoomFilter) ([]model.Room, error) {
	f.NameContains = strings.TrimSpace(f.NameContains)
	rooms, err := s.rooms.ListRooms(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *Service) GetRoom(ctx context.Context, code string) (model.Room, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.Room{}, invalid("room_code", "is required")
	}
	room, err := s.rooms.GetRoom(ctx, code)
	if err != nil {
		if storage.IsNotFound(err) {
			return model.Room{}, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
		}
		return model.Room{}, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/md-rashed-zaman/roombook/services/booking-service/internal/availability"

// ZoneResolver maps room codes to their building's IANA zone name. Unknown
// codes are absent from the result.
type ZoneResolver interface {
	RoomZones(ctx context.Context, roomCodes []string) (map[string]string, error)
}

// BookingLister returns the bookings of the given rooms whose stored wall
// clock interval intersects [from, to), ordered by room code then start.
type BookingLister interface {
	ListBookingsBetween(ctx context.Context, roomCodes []string, from, to time.Time) ([]model.Booking, error)
}

// Engine answers conflict and free slot questions. It keeps no state between
// calls.
type Engine struct {
	zones    ZoneResolver
	bookings BookingLister
}

func NewEngine(zones ZoneResolver, bookings BookingLister) *Engine {
	return &Engine{zones: zones, bookings: bookings}
}

// IsRoomAvailable reports whether [start, start+durationHours) is free in
// roomCode. start is a wall clock in the room's zone; the caller has already
// checked the room exists, start is on the hour and the duration is 1..24.
//
// Besides the bookings of start's calendar date it considers bookings from
// the previous day that run past midnight and, for candidates that cross
// midnight themselves, bookings early the next day.
func (e *Engine) IsRoomAvailable(ctx context.Context, roomCode string, start time.Time, durationHours int) (bool, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "availability.IsRoomAvailable", trace.WithAttributes(
		attribute.String("room.code", roomCode),
		attribute.Int("booking.duration_hours", durationHours),
	))
	defer span.End()

	locs, err := e.locations(ctx, []string{roomCode})
	if err != nil {
		recordError(span, err)
		return false, err
	}
	loc := locs[roomCode]

	candidate := model.Booking{StartDateTime: model.Naive(start), DurationInHours: durationHours, RoomCode: roomCode}
	want := bookingInterval(candidate, loc)

	day := DayOf(candidate.StartDateTime)
	from := day.NaiveStart()
	to := day.Next().NaiveStart()
	if end := candidate.EndDateTime(); end.After(to) {
		to = end
	}

	existing, err := e.bookings.ListBookingsBetween(ctx, []string{roomCode}, from, to)
	if err != nil {
		recordError(span, err)
		return false, err
	}
	for _, b := range existing {
		if b.RoomCode != roomCode {
			continue
		}
		if Overlaps(want, bookingInterval(b, loc)) {
			span.SetAttributes(attribute.Bool("room.available", false), attribute.Int64("conflict.booking_id", b.ID))
			return false, nil
		}
	}
	span.SetAttributes(attribute.Bool("room.available", true))
	return true, nil
}

// AvailableSlots computes the free slots of day for every room in roomCodes.
// Codes that match no room are reported free for the whole day, anchored at
// UTC midnight. Rooms with bookings come first, in store order, followed by
// rooms without bookings in request order. Either every room is computed or
// an error is returned.
func (e *Engine) AvailableSlots(ctx context.Context, day Day, roomCodes []string) ([]RoomFreeSlots, error) {
	codes := uniqueCodes(roomCodes)
	ctx, span := otel.Tracer(tracerName).Start(ctx, "availability.AvailableSlots", trace.WithAttributes(
		attribute.String("day", day.String()),
		attribute.Int("room.count", len(codes)),
	))
	defer span.End()

	if len(codes) == 0 {
		return []RoomFreeSlots{}, nil
	}

	locs, err := e.locations(ctx, codes)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	bookings, err := e.bookings.ListBookingsBetween(ctx, codes, day.NaiveStart(), day.Next().NaiveStart())
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	busy := make(map[string][]Interval, len(codes))
	order := make([]string, 0, len(codes))
	for _, b := range bookings {
		loc, ok := locs[b.RoomCode]
		if !ok {
			continue
		}
		if _, seen := busy[b.RoomCode]; !seen {
			order = append(order, b.RoomCode)
		}
		busy[b.RoomCode] = append(busy[b.RoomCode], bookingInterval(b, loc))
	}
	for _, code := range codes {
		if _, seen := busy[code]; !seen {
			order = append(order, code)
		}
	}

	out := make([]RoomFreeSlots, 0, len(order))
	for _, code := range order {
		loc := locs[code]
		out = append(out, RoomFreeSlots{
			RoomCode:  code,
			FreeSlots: FreeSlots(day.Start(loc), day.Next().Start(loc), busy[code]),
		})
	}
	return out, nil
}

// locations resolves every code to a location. Codes without a room fall
// back to UTC; a room whose building zone does not resolve is an error.
func (e *Engine) locations(ctx context.Context, codes []string) (map[string]*time.Location, error) {
	zones, err := e.zones.RoomZones(ctx, codes)
	if err != nil {
		return nil, err
	}
	locs := make(map[string]*time.Location, len(codes))
	for _, code := range codes {
		tz, ok := zones[code]
		if !ok {
			locs[code] = time.UTC
			continue
		}
		loc, err := LoadZone(tz)
		if err != nil {
			return nil, fmt.Errorf("room %s: %w", code, err)
		}
		locs[code] = loc
	}
	return locs, nil
}

func uniqueCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

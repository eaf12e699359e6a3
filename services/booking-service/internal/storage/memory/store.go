// Package memory is a process-local store for development and tests. It
// mirrors the Postgres repositories, including rejecting overlapping
// bookings, but does not emit outbox events.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/storage"
)

type Store struct {
	mu        sync.RWMutex
	buildings map[int64]model.Building
	rooms     map[string]model.Room
	bookings  map[int64]model.Booking
	nextID    int64
}

func New() *Store {
	return &Store{
		buildings: map[int64]model.Building{},
		rooms:     map[string]model.Room{},
		bookings:  map[int64]model.Booking{},
		nextID:    1,
	}
}

// NewSeeded returns a store holding the default building and rooms.
func NewSeeded() *Store {
	s := New()
	b := storage.DefaultBuilding
	b.ID = 1
	s.AddBuilding(b)
	for _, r := range storage.DefaultRooms() {
		r.BuildingID = b.ID
		s.AddRoom(r)
	}
	return s
}

func (s *Store) AddBuilding(b model.Building) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buildings[b.ID] = b
}

// AddRoom stores r under an existing building.
func (s *Store) AddRoom(r model.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Building = s.buildings[r.BuildingID]
	s.rooms[r.Code] = r
}

func (s *Store) GetRoom(_ context.Context, code string) (model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[code]
	if !ok {
		return model.Room{}, storage.ErrNotFound
	}
	return r, nil
}

func (s *Store) ListRooms(_ context.Context, f storage.RoomFilter) ([]model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(f.NameContains)
	var out []model.Room
	for _, r := range s.rooms {
		if needle != "" && !strings.Contains(strings.ToLower(r.Name), needle) {
			continue
		}
		if f.Floor != nil && r.Floor != *f.Floor {
			continue
		}
		if f.MinCapacity != nil && (r.Capacity == nil || *r.Capacity < *f.MinCapacity) {
			continue
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b model.Room) int { return strings.Compare(a.Code, b.Code) })
	return out, nil
}

func (s *Store) RoomZones(_ context.Context, codes []string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	zones := make(map[string]string, len(codes))
	for _, c := range codes {
		if r, ok := s.rooms[c]; ok {
			zones[c] = r.Building.TZName
		}
	}
	return zones, nil
}

// CreateBooking rejects a booking overlapping another one in the same room
// with storage.ErrConflict, matching the Postgres exclusion constraint.
func (s *Store) CreateBooking(_ context.Context, b model.Booking) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[b.RoomCode]
	if !ok {
		return model.Booking{}, storage.ErrNotFound
	}
	b.StartDateTime = model.Naive(b.StartDateTime)
	for _, existing := range s.bookings {
		if existing.RoomCode != b.RoomCode {
			continue
		}
		if b.StartDateTime.Before(existing.EndDateTime()) && existing.StartDateTime.Before(b.EndDateTime()) {
			return model.Booking{}, storage.ErrConflict
		}
	}

	b.ID = s.nextID
	s.nextID++
	b.Room = &room
	s.bookings[b.ID] = b
	return b, nil
}

func (s *Store) DeleteBooking(_ context.Context, id int64) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return model.Booking{}, storage.ErrNotFound
	}
	delete(s.bookings, id)
	return b, nil
}

func (s *Store) GetBooking(_ context.Context, id int64) (model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return model.Booking{}, storage.ErrNotFound
	}
	return s.withRoom(b), nil
}

func (s *Store) ListBookings(_ context.Context, f storage.BookingFilter) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, to := model.Naive(f.From), model.Naive(f.To)
	var out []model.Booking
	for _, b := range s.bookings {
		if f.Author != "" && b.Author != f.Author {
			continue
		}
		if f.RoomCode != "" && b.RoomCode != f.RoomCode {
			continue
		}
		if !f.From.IsZero() && b.StartDateTime.Before(from) {
			continue
		}
		if !f.To.IsZero() && !b.StartDateTime.Before(to) {
			continue
		}
		out = append(out, s.withRoom(b))
	}
	slices.SortFunc(out, func(a, b model.Booking) int {
		if c := a.StartDateTime.Compare(b.StartDateTime); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
	return out, nil
}

func (s *Store) ListBookingsBetween(_ context.Context, codes []string, from, to time.Time) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, to = model.Naive(from), model.Naive(to)
	var out []model.Booking
	for _, b := range s.bookings {
		if !slices.Contains(codes, b.RoomCode) {
			continue
		}
		if b.StartDateTime.Before(to) && b.EndDateTime().After(from) {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b model.Booking) int {
		if c := strings.Compare(a.RoomCode, b.RoomCode); c != 0 {
			return c
		}
		return a.StartDateTime.Compare(b.StartDateTime)
	})
	return out, nil
}

func (s *Store) withRoom(b model.Booking) model.Booking {
	if r, ok := s.rooms[b.RoomCode]; ok {
		b.Room = &r
	}
	return b
}

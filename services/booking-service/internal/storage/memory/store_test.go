package memory

import (
	"context"
	"testing"
	"time"

	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeded(t *testing.T) {
	s := NewSeeded()
	rooms, err := s.ListRooms(context.Background(), storage.RoomFilter{})
	require.NoError(t, err)
	require.Len(t, rooms, 10)
	assert.Equal(t, "room0", rooms[0].Code)
	assert.Equal(t, "Europe/Paris", rooms[0].Building.TZName)

	zones, err := s.RoomZones(context.Background(), []string{"room3", "ghost"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"room3": "Europe/Paris"}, zones)
}

func TestListRooms_Filters(t *testing.T) {
	s := NewSeeded()
	floor, capacity := 3, 15

	rooms, err := s.ListRooms(context.Background(), storage.RoomFilter{Floor: &floor, MinCapacity: &capacity})
	require.NoError(t, err)
	var codes []string
	for _, r := range rooms {
		codes = append(codes, r.Code)
	}
	assert.Equal(t, []string{"room8", "room9"}, codes)

	rooms, err = s.ListRooms(context.Background(), storage.RoomFilter{NameContains: "salle d"})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "room4", rooms[0].Code)
}

func TestCreateBooking_RejectsOverlap(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()
	start := time.Date(2020, 8, 4, 9, 0, 0, 0, time.UTC)

	first, err := s.CreateBooking(ctx, model.Booking{Author: "ada", StartDateTime: start, DurationInHours: 2, RoomCode: "room1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	_, err = s.CreateBooking(ctx, model.Booking{Author: "bob", StartDateTime: start.Add(time.Hour), DurationInHours: 1, RoomCode: "room1"})
	assert.True(t, storage.IsConflict(err))

	_, err = s.CreateBooking(ctx, model.Booking{Author: "bob", StartDateTime: start.Add(2 * time.Hour), DurationInHours: 1, RoomCode: "room1"})
	assert.NoError(t, err, "adjacent booking must be accepted")

	_, err = s.CreateBooking(ctx, model.Booking{Author: "bob", StartDateTime: start, DurationInHours: 1, RoomCode: "nowhere"})
	assert.True(t, storage.IsNotFound(err))
}

func TestBookingQueries(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()
	day := time.Date(2020, 8, 4, 0, 0, 0, 0, time.UTC)

	for _, b := range []model.Booking{
		{Author: "ada", StartDateTime: day.Add(-2 * time.Hour), DurationInHours: 3, RoomCode: "room1"},
		{Author: "ada", StartDateTime: day.Add(9 * time.Hour), DurationInHours: 1, RoomCode: "room1"},
		{Author: "bob", StartDateTime: day.Add(9 * time.Hour), DurationInHours: 1, RoomCode: "room2"},
	} {
		_, err := s.CreateBooking(ctx, b)
		require.NoError(t, err)
	}

	onDay, err := s.ListBookings(ctx, storage.BookingFilter{Author: "ada", From: day, To: day.AddDate(0, 0, 1)})
	require.NoError(t, err)
	require.Len(t, onDay, 1)
	require.NotNil(t, onDay[0].Room)
	assert.Equal(t, "Salle Ada Lovelace", onDay[0].Room.Name)

	between, err := s.ListBookingsBetween(ctx, []string{"room1", "room2"}, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, between, 3)
	assert.Equal(t, "room1", between[0].RoomCode)
	assert.True(t, between[0].StartDateTime.Before(day))
	assert.Equal(t, "room2", between[2].RoomCode)

	deleted, err := s.DeleteBooking(ctx, between[0].ID)
	require.NoError(t, err)
	_, err = s.GetBooking(ctx, deleted.ID)
	assert.True(t, storage.IsNotFound(err))
	_, err = s.DeleteBooking(ctx, deleted.ID)
	assert.True(t, storage.IsNotFound(err))
}

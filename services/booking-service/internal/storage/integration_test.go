package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/md-rashed-zaman/roombook/libs/db"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestPool connects to TEST_DATABASE_URL, applies the schema and seed, and
// empties the booking tables. Tests are skipped without it.
func openTestPool(t *testing.T) *db.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Migrate(ctx, pool), "schema must be re-runnable")
	require.NoError(t, Seed(ctx, pool))
	require.NoError(t, Seed(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE bookings, outbox_events RESTART IDENTITY`)
	require.NoError(t, err)
	return pool
}

func TestPostgres_RoomQueries(t *testing.T) {
	pool := openTestPool(t)
	rooms := NewRoomRepository(pool)
	ctx := context.Background()

	room, err := rooms.GetRoom(ctx, "room1")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", room.Building.TZName)

	_, err = rooms.GetRoom(ctx, "attic")
	assert.True(t, IsNotFound(err))

	floor := 2
	list, err := rooms.ListRooms(ctx, RoomFilter{Floor: &floor, NameContains: "dijkstra"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "room5", list[0].Code)

	zones, err := rooms.RoomZones(ctx, []string{"room0", "attic"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"room0": "Europe/Paris"}, zones)
}

func TestPostgres_BookingLifecycle(t *testing.T) {
	pool := openTestPool(t)
	bookings := NewBookingRepository(pool, outbox.NewRepository(pool))
	ctx := context.Background()
	start := time.Date(2020, 8, 4, 22, 0, 0, 0, time.UTC)

	created, err := bookings.CreateBooking(ctx, model.Booking{Author: "ada", StartDateTime: start, DurationInHours: 4, RoomCode: "room1"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	_, err = bookings.CreateBooking(ctx, model.Booking{Author: "bob", StartDateTime: start.Add(3 * time.Hour), DurationInHours: 1, RoomCode: "room1"})
	assert.True(t, IsConflict(err), "exclusion constraint must reject the overlap: %v", err)

	_, err = bookings.CreateBooking(ctx, model.Booking{Author: "bob", StartDateTime: start.Add(4 * time.Hour), DurationInHours: 1, RoomCode: "room1"})
	require.NoError(t, err)

	nextDay := time.Date(2020, 8, 5, 0, 0, 0, 0, time.UTC)
	between, err := bookings.ListBookingsBetween(ctx, []string{"room1"}, nextDay, nextDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, between, 2, "the booking from the previous evening spills into the day")

	listed, err := bookings.ListBookings(ctx, BookingFilter{Author: "ada", From: start.Truncate(24 * time.Hour), To: nextDay})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].Room)
	assert.Equal(t, "Salle Ada Lovelace", listed[0].Room.Name)

	deleted, err := bookings.DeleteBooking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", deleted.Author)
	_, err = bookings.GetBooking(ctx, created.ID)
	assert.True(t, IsNotFound(err))
	_, err = bookings.DeleteBooking(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var events int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM outbox_events`).Scan(&events))
	assert.Equal(t, 3, events, "two creates and one delete")
}

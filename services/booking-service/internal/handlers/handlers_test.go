package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	store := memory.NewSeeded()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := booking.NewService(store, store, availability.NewEngine(store, store), logger)

	mux := http.NewServeMux()
	NewBookingHandler(svc, logger).Register(mux)
	NewRoomHandler(svc, logger).Register(mux)
	return mux
}

func do(t *testing.T, mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCreateBooking_Statuses(t *testing.T) {
	mux := newTestMux(t)

	rec := do(t, mux, http.MethodPost, "/booking/", `{"author":"ada","start_datetime":"2020-08-04T09:00:00","duration_in_hours":2,"room_code":"room1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created bookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "2020-08-04T09:00:00+02:00", created.StartDateTime)
	assert.Equal(t, "2020-08-04T11:00:00+02:00", created.EndDateTime)
	require.NotNil(t, created.Room)
	assert.Equal(t, "Salle Ada Lovelace", created.Room.Name)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{"author":`, http.StatusBadRequest},
		{"missing author", `{"start_datetime":"2020-08-04T09:00:00","duration_in_hours":1,"room_code":"room1"}`, http.StatusBadRequest},
		{"unknown room", `{"author":"ada","start_datetime":"2020-08-04T09:00:00","duration_in_hours":1,"room_code":"attic"}`, http.StatusNotFound},
		{"off the hour", `{"author":"ada","start_datetime":"2020-08-04T13:15:00","duration_in_hours":1,"room_code":"room1"}`, http.StatusUnprocessableEntity},
		{"too long", `{"author":"ada","start_datetime":"2020-08-04T13:00:00","duration_in_hours":25,"room_code":"room1"}`, http.StatusUnprocessableEntity},
		{"no trailing slash", `{"author":"ada","start_datetime":"2020-08-04T13:00:00","duration_in_hours":1,"room_code":"room1"}`, http.StatusCreated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := "/booking/"
			if tc.name == "no trailing slash" {
				target = "/booking"
			}
			rec := do(t, mux, http.MethodPost, target, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateBooking_ConflictBody(t *testing.T) {
	mux := newTestMux(t)

	rec := do(t, mux, http.MethodPost, "/booking/", `{"author":"ada","start_datetime":"2020-08-04T09:00:00","duration_in_hours":2,"room_code":"room1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, mux, http.MethodPost, "/booking/", `{"author":"bob","start_datetime":"2020-08-04T10:00:00","duration_in_hours":1,"room_code":"room1"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body conflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Message)
	assert.Equal(t, []freeSlotItem{
		{StartDateTime: "2020-08-04T00:00:00+02:00", DurationInHours: 9},
		{StartDateTime: "2020-08-04T11:00:00+02:00", DurationInHours: 13},
	}, body.FreeSlots)
}

func TestGetAndDeleteBooking(t *testing.T) {
	mux := newTestMux(t)

	rec := do(t, mux, http.MethodPost, "/booking/", `{"author":"ada","start_datetime":"2020-08-04T09:00:00","duration_in_hours":1,"room_code":"room1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, mux, http.MethodGet, "/booking/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got bookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ada", got.Author)

	assert.Equal(t, http.StatusNoContent, do(t, mux, http.MethodDelete, "/booking/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/booking/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodDelete, "/booking/1", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/booking/abc", "").Code)
}

func TestListBookings(t *testing.T) {
	mux := newTestMux(t)
	for _, body := range []string{
		`{"author":"ada","start_datetime":"2020-08-04T09:00:00","duration_in_hours":1,"room_code":"room1"}`,
		`{"author":"bob","start_datetime":"2020-08-04T09:00:00","duration_in_hours":1,"room_code":"room2"}`,
		`{"author":"ada","start_datetime":"2020-08-05T09:00:00","duration_in_hours":1,"room_code":"room2"}`,
	} {
		require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/booking/", body).Code)
	}

	rec := do(t, mux, http.MethodGet, "/booking/?day=2020-08-04&author=ada", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []bookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "room1", items[0].RoomCode)

	rec = do(t, mux, http.MethodGet, "/booking?day=2020-08-04", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 2)

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, mux, http.MethodGet, "/booking/?day=tomorrow", "").Code)
}

func TestComputeAvailabilities(t *testing.T) {
	mux := newTestMux(t)
	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/booking/",
		`{"author":"ada","start_datetime":"2020-08-03T22:00:00","duration_in_hours":4,"room_code":"room3"}`).Code)

	rec := do(t, mux, http.MethodGet, "/booking/compute-availabilities?target_day_start=2020-08-04T00:00:00&room_code=room3", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rooms []roomAvailabilityItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, []freeSlotItem{{StartDateTime: "2020-08-04T02:00:00+02:00", DurationInHours: 22}}, rooms[0].FreeSlots)

	rec = do(t, mux, http.MethodPost, "/booking/compute-availabilities", `{"target_day_start":"2020-08-04T00:00:00","floor":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	assert.Len(t, rooms, 3)

	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/booking/compute-availabilities", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/booking/compute-availabilities?target_day_start=2020-08-04T00:00:00&floor=one", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, mux, http.MethodGet, "/booking/compute-availabilities?target_day_start=2020-08-04T08:00:00", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/booking/compute-availabilities?target_day_start=2020-08-04T00:00:00&room_code=attic", "").Code)
}

func TestRooms(t *testing.T) {
	mux := newTestMux(t)

	rec := do(t, mux, http.MethodGet, "/rooms/?floor=2&min_capacity=20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []roomSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	assert.Equal(t, []roomSummary{
		{Code: "room4", Name: "Salle Dennis Ritchie"},
		{Code: "room5", Name: "Salle Edsger Dijkstra"},
	}, summaries)

	rec = do(t, mux, http.MethodGet, "/rooms?search_in_name=TURING", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, mux, http.MethodGet, "/rooms/room0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var room roomResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &room))
	assert.Equal(t, "Auditorium", room.Name)
	require.NotNil(t, room.Capacity)
	assert.Equal(t, 250, *room.Capacity)

	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/rooms/attic", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/rooms/?floor=x", "").Code)
}

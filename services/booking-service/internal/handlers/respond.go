package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	otelx "github.com/md-rashed-zaman/roombook/libs/otel"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/model"
)

const naiveLayout = "2006-01-02T15:04:05"

type freeSlotItem struct {
	StartDateTime   string `json:"start_datetime"`
	DurationInHours int    `json:"duration_in_hours"`
}

type roomAvailabilityItem struct {
	RoomCode  string         `json:"room_code"`
	FreeSlots []freeSlotItem `json:"free_slots"`
}

type conflictResponse struct {
	Message   string         `json:"message"`
	FreeSlots []freeSlotItem `json:"free_slots"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError maps service errors onto HTTP statuses. Anything unrecognised is
// logged and reported as a 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *booking.ValidationError
	var cerr *booking.ConflictError
	switch {
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusConflict, conflictResponse{
			Message:   cerr.Error(),
			FreeSlots: freeSlotItems(cerr.FreeSlots),
		})
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, booking.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, availability.ErrInvalidTimeZone):
		logger.Error("room has an unusable time zone", append([]any{"err", err, "path", r.URL.Path}, otelx.LogAttrs(r.Context())...)...)
		http.Error(w, "room time zone misconfigured", http.StatusInternalServerError)
	default:
		logger.Error("request failed", append([]any{"err", err, "path", r.URL.Path}, otelx.LogAttrs(r.Context())...)...)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func freeSlotItems(slots []availability.FreeSlot) []freeSlotItem {
	items := make([]freeSlotItem, 0, len(slots))
	for _, s := range slots {
		items = append(items, freeSlotItem{
			StartDateTime:   s.Start.Format(time.RFC3339),
			DurationInHours: s.DurationInHours,
		})
	}
	return items
}

func availabilityItems(rooms []availability.RoomFreeSlots) []roomAvailabilityItem {
	items := make([]roomAvailabilityItem, 0, len(rooms))
	for _, r := range rooms {
		items = append(items, roomAvailabilityItem{RoomCode: r.RoomCode, FreeSlots: freeSlotItems(r.FreeSlots)})
	}
	return items
}

// formatWallClock renders a stored wall clock as RFC3339 in the room's zone,
// or without an offset when the zone is unknown.
func formatWallClock(wall time.Time, room *model.Room) string {
	if room == nil {
		return wall.Format(naiveLayout)
	}
	local, err := availability.LocalInstant(wall, room.Building.TZName)
	if err != nil {
		return wall.Format(naiveLayout)
	}
	return local.Format(time.RFC3339)
}

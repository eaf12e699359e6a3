package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/model"
)

type BookingHandler struct {
	svc    *booking.Service
	logger *slog.Logger
}

func NewBookingHandler(svc *booking.Service, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

func (h *BookingHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /booking", h.List)
	mux.HandleFunc("GET /booking/{$}", h.List)
	mux.HandleFunc("POST /booking", h.Create)
	mux.HandleFunc("POST /booking/{$}", h.Create)
	mux.HandleFunc("GET /booking/{id}", h.Get)
	mux.HandleFunc("DELETE /booking/{id}", h.Delete)
	mux.HandleFunc("GET /booking/compute-availabilities", h.ComputeAvailabilities)
	mux.HandleFunc("POST /booking/compute-availabilities", h.ComputeAvailabilities)
}

type createBookingRequest struct {
	Author          string `json:"author"`
	StartDateTime   string `json:"start_datetime"`
	DurationInHours int    `json:"duration_in_hours"`
	RoomCode        string `json:"room_code"`
}

type bookingResponse struct {
	ID              int64         `json:"id"`
	Author          string        `json:"author"`
	StartDateTime   string        `json:"start_datetime"`
	EndDateTime     string        `json:"end_datetime"`
	DurationInHours int           `json:"duration_in_hours"`
	RoomCode        string        `json:"room_code"`
	Room            *roomResponse `json:"room,omitempty"`
}

func toBookingResponse(b model.Booking) bookingResponse {
	resp := bookingResponse{
		ID:              b.ID,
		Author:          b.Author,
		StartDateTime:   formatWallClock(b.StartDateTime, b.Room),
		EndDateTime:     formatWallClock(b.EndDateTime(), b.Room),
		DurationInHours: b.DurationInHours,
		RoomCode:        b.RoomCode,
	}
	if b.Room != nil {
		room := toRoomResponse(*b.Room)
		resp.Room = &room
	}
	return resp
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Author) == "" || strings.TrimSpace(req.RoomCode) == "" || strings.TrimSpace(req.StartDateTime) == "" {
		http.Error(w, "author, start_datetime and room_code required", http.StatusBadRequest)
		return
	}

	created, err := h.svc.CreateBooking(r.Context(), booking.CreateInput{
		Author:          req.Author,
		StartDateTime:   req.StartDateTime,
		DurationInHours: req.DurationInHours,
		RoomCode:        req.RoomCode,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bookings, err := h.svc.ListBookings(r.Context(), booking.BookingQuery{
		Author:   q.Get("author"),
		RoomCode: q.Get("room_code"),
		Day:      q.Get("day"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	items := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	b, err := h.svc.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteBooking(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type computeAvailabilitiesRequest struct {
	TargetDayStart string `json:"target_day_start"`
	RoomCode       string `json:"room_code"`
	Floor          *int   `json:"floor"`
}

// ComputeAvailabilities reads its fields from the query string on GET and
// from a JSON body on POST.
func (h *BookingHandler) ComputeAvailabilities(w http.ResponseWriter, r *http.Request) {
	var req computeAvailabilitiesRequest
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
	} else {
		q := r.URL.Query()
		req.TargetDayStart = q.Get("target_day_start")
		req.RoomCode = q.Get("room_code")
		floor, err := optionalInt(q.Get("floor"))
		if err != nil {
			http.Error(w, "invalid floor", http.StatusBadRequest)
			return
		}
		req.Floor = floor
	}
	if strings.TrimSpace(req.TargetDayStart) == "" {
		http.Error(w, "target_day_start required", http.StatusBadRequest)
		return
	}

	rooms, err := h.svc.ComputeAvailabilities(r.Context(), booking.AvailabilityQuery{
		TargetDayStart: req.TargetDayStart,
		RoomCode:       req.RoomCode,
		Floor:          req.Floor,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityItems(rooms))
}

func bookingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid booking id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func optionalInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

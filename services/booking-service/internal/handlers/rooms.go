package handlers

import (
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/storage"
)

type RoomHandler struct {
	svc    *booking.Service
	logger *slog.Logger
}

func NewRoomHandler(svc *booking.Service, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{svc: svc, logger: logger}
}

func (h *RoomHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /rooms", h.List)
	mux.HandleFunc("GET /rooms/{$}", h.List)
	mux.HandleFunc("GET /rooms/{code}", h.Get)
}

type roomSummary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type buildingResponse struct {
	Address string `json:"address"`
	TZName  string `json:"tz_name"`
}

type roomResponse struct {
	Code     string            `json:"code"`
	Name     string            `json:"name"`
	Floor    int               `json:"floor"`
	Capacity *int              `json:"capacity"`
	Building *buildingResponse `json:"building,omitempty"`
}

func toRoomResponse(r model.Room) roomResponse {
	resp := roomResponse{Code: r.Code, Name: r.Name, Floor: r.Floor, Capacity: r.Capacity}
	if r.Building.TZName != "" || r.Building.Address != "" {
		resp.Building = &buildingResponse{Address: r.Building.Address, TZName: r.Building.TZName}
	}
	return resp
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	floor, err := optionalInt(q.Get("floor"))
	if err != nil {
		http.Error(w, "invalid floor", http.StatusBadRequest)
		return
	}
	minCapacity, err := optionalInt(q.Get("min_capacity"))
	if err != nil {
		http.Error(w, "invalid min_capacity", http.StatusBadRequest)
		return
	}

	rooms, err := h.svc.ListRooms(r.Context(), storage.RoomFilter{
		NameContains: q.Get("search_in_name"),
		Floor:        floor,
		MinCapacity:  minCapacity,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	items := make([]roomSummary, 0, len(rooms))
	for _, room := range rooms {
		items = append(items, roomSummary{Code: room.Code, Name: room.Name})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, err := h.svc.GetRoom(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(room))
}

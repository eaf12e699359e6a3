package outbox

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/model"
)

const (
	AggregateBooking = "booking"

	BookingCreated = "booking.created.v1"
	BookingDeleted = "booking.deleted.v1"
)

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType.
type Event struct {
	EventID       string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

type bookingPayload struct {
	BookingID       int64  `json:"booking_id"`
	Author          string `json:"author"`
	RoomCode        string `json:"room_code"`
	StartDateTime   string `json:"start_datetime"`
	DurationInHours int    `json:"duration_in_hours"`
	TZName          string `json:"tz_name,omitempty"`
}

// BookingEvent builds a booking lifecycle event. start_datetime is the
// room-local wall clock; tz_name is set when the room is loaded.
func BookingEvent(eventType string, b model.Booking) (Event, error) {
	p := bookingPayload{
		BookingID:       b.ID,
		Author:          b.Author,
		RoomCode:        b.RoomCode,
		StartDateTime:   b.StartDateTime.Format("2006-01-02T15:04:05"),
		DurationInHours: b.DurationInHours,
	}
	if b.Room != nil {
		p.TZName = b.Room.Building.TZName
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return Event{}, err
	}
	return Event{
		EventID:       uuid.NewString(),
		AggregateType: AggregateBooking,
		AggregateID:   strconv.FormatInt(b.ID, 10),
		EventType:     eventType,
		Payload:       payload,
	}, nil
}

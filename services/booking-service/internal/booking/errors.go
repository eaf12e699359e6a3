package booking

import (
	"errors"
	"fmt"

	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/availability"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrRoomNotFound    = fmt.Errorf("room %w", ErrNotFound)
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)
)

// ValidationError reports an input that is well formed but not acceptable,
// such as a start time off the hour.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError is returned when the requested interval overlaps an existing
// booking. It carries the room's free slots for the requested day.
type ConflictError struct {
	RoomCode  string
	Day       availability.Day
	FreeSlots []availability.FreeSlot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room %s is not available at the requested time", e.RoomCode)
}

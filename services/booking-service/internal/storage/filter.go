package storage

import "time"

type RoomFilter struct {
	// NameContains matches room names case-insensitively.
	NameContains string
	Floor        *int
	MinCapacity  *int
}

// BookingFilter selects bookings whose stored start lies in [From, To).
// Zero values disable a criterion.
type BookingFilter struct {
	Author   string
	RoomCode string
	From     time.Time
	To       time.Time
}

package model

import "time"

// Booking reserves a room for whole hours. StartDateTime is a naive wall
// clock: only its date and clock fields are meaningful, and they are read in
// the room's building time zone.
type Booking struct {
	ID              int64
	Author          string
	StartDateTime   time.Time
	DurationInHours int
	RoomCode        string
	Room            *Room
}

func (b Booking) EndDateTime() time.Time {
	return b.StartDateTime.Add(time.Duration(b.DurationInHours) * time.Hour)
}

// Naive drops the location of t, keeping its wall clock, so values compare
// the way they are stored.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

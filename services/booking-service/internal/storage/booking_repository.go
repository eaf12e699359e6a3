package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/roombook/libs/db"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/outbox"
)

type BookingRepository struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func NewBookingRepository(pool *db.Pool, outboxRepo *outbox.Repository) *BookingRepository {
	return &BookingRepository{pool: pool, outbox: outboxRepo}
}

const selectBookings = `
	SELECT bk.id, bk.author, bk.start_datetime, bk.duration, bk.room_code,
		r.name, r.floor, r.capacity, r.building_id, b.address, b.tz_name
	FROM bookings bk
	JOIN rooms r ON r.code = bk.room_code
	JOIN buildings b ON b.id = r.building_id`

// CreateBooking inserts b and its booking.created event atomically. The
// exclusion constraint rejects an overlapping booking with SQLSTATE 23P01
// (see IsConflict).
func (r *BookingRepository) CreateBooking(ctx context.Context, b model.Booking) (model.Booking, error) {
	b.StartDateTime = model.Naive(b.StartDateTime)
	err := r.pool.WithTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO bookings (author, start_datetime, duration, room_code)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, b.Author, b.StartDateTime, b.DurationInHours, b.RoomCode).Scan(&b.ID); err != nil {
			return err
		}
		return r.emit(ctx, tx, outbox.BookingCreated, b)
	})
	if err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepository) DeleteBooking(ctx context.Context, id int64) (model.Booking, error) {
	var b model.Booking
	err := r.pool.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			DELETE FROM bookings
			WHERE id = $1
			RETURNING id, author, start_datetime, duration, room_code
		`, id).Scan(&b.ID, &b.Author, &b.StartDateTime, &b.DurationInHours, &b.RoomCode)
		if err != nil {
			return err
		}
		return r.emit(ctx, tx, outbox.BookingDeleted, b)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Booking{}, ErrNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepository) emit(ctx context.Context, tx pgx.Tx, eventType string, b model.Booking) error {
	if r.outbox == nil {
		return nil
	}
	evt, err := outbox.BookingEvent(eventType, b)
	if err != nil {
		return err
	}
	return r.outbox.Insert(ctx, tx, evt)
}

func (r *BookingRepository) GetBooking(ctx context.Context, id int64) (model.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, selectBookings+` WHERE bk.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Booking{}, ErrNotFound
	}
	return b, err
}

func (r *BookingRepository) ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	var w where
	if f.Author != "" {
		w.add(`bk.author = ?`, f.Author)
	}
	if f.RoomCode != "" {
		w.add(`bk.room_code = ?`, f.RoomCode)
	}
	if !f.From.IsZero() {
		w.add(`bk.start_datetime >= ?`, model.Naive(f.From))
	}
	if !f.To.IsZero() {
		w.add(`bk.start_datetime < ?`, model.Naive(f.To))
	}

	rows, err := r.pool.Query(ctx, selectBookings+w.String()+` ORDER BY bk.start_datetime, bk.id`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return bookings, nil
}

// ListBookingsBetween returns bookings of roomCodes whose wall clock interval
// intersects [from, to). The range predicate is served by the exclusion
// constraint's gist index.
func (r *BookingRepository) ListBookingsBetween(ctx context.Context, roomCodes []string, from, to time.Time) ([]model.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, author, start_datetime, duration, room_code
		FROM bookings
		WHERE room_code = ANY($1)
			AND tsrange(start_datetime, start_datetime + duration * INTERVAL '1 hour', '[)') && tsrange($2::timestamp, $3::timestamp, '[)')
		ORDER BY room_code, start_datetime
	`, roomCodes, model.Naive(from), model.Naive(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.Author, &b.StartDateTime, &b.DurationInHours, &b.RoomCode); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return bookings, nil
}

func scanBooking(row rowScanner) (model.Booking, error) {
	var b model.Booking
	room := &model.Room{}
	err := row.Scan(
		&b.ID,
		&b.Author,
		&b.StartDateTime,
		&b.DurationInHours,
		&b.RoomCode,
		&room.Name,
		&room.Floor,
		&room.Capacity,
		&room.BuildingID,
		&room.Building.Address,
		&room.Building.TZName,
	)
	if err != nil {
		return model.Booking{}, err
	}
	room.Code = b.RoomCode
	room.Building.ID = room.BuildingID
	b.Room = room
	return b, nil
}

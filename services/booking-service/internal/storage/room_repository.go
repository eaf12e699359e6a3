package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/roombook/libs/db"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/model"
)

type RoomRepository struct {
	pool *db.Pool
}

func NewRoomRepository(pool *db.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

const selectRooms = `
	SELECT r.code, r.name, r.floor, r.capacity, r.building_id, b.address, b.tz_name
	FROM rooms r
	JOIN buildings b ON b.id = r.building_id`

func (r *RoomRepository) GetRoom(ctx context.Context, code string) (model.Room, error) {
	room, err := scanRoom(r.pool.QueryRow(ctx, selectRooms+` WHERE r.code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Room{}, ErrNotFound
	}
	return room, err
}

func (r *RoomRepository) ListRooms(ctx context.Context, f RoomFilter) ([]model.Room, error) {
	var w where
	if f.NameContains != "" {
		w.add(`r.name ILIKE ?`, containsPattern(f.NameContains))
	}
	if f.Floor != nil {
		w.add(`r.floor = ?`, *f.Floor)
	}
	if f.MinCapacity != nil {
		w.add(`r.capacity >= ?`, *f.MinCapacity)
	}

	rows, err := r.pool.Query(ctx, selectRooms+w.String()+` ORDER BY r.code`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return rooms, nil
}

// RoomZones returns code -> tz_name for the rooms that exist.
func (r *RoomRepository) RoomZones(ctx context.Context, codes []string) (map[string]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.code, b.tz_name
		FROM rooms r
		JOIN buildings b ON b.id = r.building_id
		WHERE r.code = ANY($1)
	`, codes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	zones := make(map[string]string, len(codes))
	for rows.Next() {
		var code, tz string
		if err := rows.Scan(&code, &tz); err != nil {
			return nil, err
		}
		zones[code] = tz
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return zones, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (model.Room, error) {
	var room model.Room
	err := row.Scan(
		&room.Code,
		&room.Name,
		&room.Floor,
		&room.Capacity,
		&room.BuildingID,
		&room.Building.Address,
		&room.Building.TZName,
	)
	if err != nil {
		return model.Room{}, err
	}
	room.Building.ID = room.BuildingID
	return room, nil
}

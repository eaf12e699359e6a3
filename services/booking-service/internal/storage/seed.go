package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/roombook/libs/db"
	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/model"
)

// DefaultBuilding is the single building rooms are seeded into.
var DefaultBuilding = model.Building{
	Address: "Immeuble Basalte La Défense, 17 Cours Valmy 7, 92800 Puteaux",
	TZName:  "Europe/Paris",
}

// DefaultRooms returns a fresh copy of the seeded rooms, without building ids.
func DefaultRooms() []model.Room {
	room := func(code, name string, floor, capacity int) model.Room {
		return model.Room{Code: code, Name: name, Floor: floor, Capacity: &capacity}
	}
	return []model.Room{
		room("room0", "Auditorium", 0, 250),
		room("room1", "Salle Ada Lovelace", 1, 12),
		room("room2", "Salle Blaise Pascal", 1, 20),
		room("room3", "Salle Claude Shannon", 1, 18),
		room("room4", "Salle Dennis Ritchie", 2, 30),
		room("room5", "Salle Edsger Dijkstra", 2, 21),
		room("room6", "Salle Fredrik Rosin Bull", 2, 13),
		room("room7", "Salle Guido van Rossum", 3, 10),
		room("room8", "Salle Haskell Curry", 3, 15),
		room("room9", "Salle John von Neumann", 3, 40),
	}
}

// Seed inserts the default building and rooms. Running it again is a no-op.
func Seed(ctx context.Context, pool *db.Pool) error {
	return pool.WithTx(ctx, func(tx pgx.Tx) error {
		var buildingID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO buildings (address, tz_name)
			VALUES ($1, $2)
			ON CONFLICT (address) DO UPDATE SET address = EXCLUDED.address
			RETURNING id
		`, DefaultBuilding.Address, DefaultBuilding.TZName).Scan(&buildingID)
		if err != nil {
			return fmt.Errorf("seed building: %w", err)
		}

		for _, r := range DefaultRooms() {
			if _, err := tx.Exec(ctx, `
				INSERT INTO rooms (code, building_id, name, floor, capacity)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (code) DO NOTHING
			`, r.Code, buildingID, r.Name, r.Floor, r.Capacity); err != nil {
				return fmt.Errorf("seed room %s: %w", r.Code, err)
			}
		}
		return nil
	})
}

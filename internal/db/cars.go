package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/storeapi/backend/internal/model"
)

const carColumns = `id, size, fuel, doors, transmission`

func scanCar(row interface{ Scan(...any) error }) (*model.Car, error) {
	var c model.Car
	if err := row.Scan(&c.ID, &c.Size, &c.Fuel, &c.Doors, &c.Transmission); err != nil {
		if IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (db *Postgres) ListCars(ctx context.Context, filter model.CarFilter) ([]model.Car, error) {
	var (
		where []string
		args  []any
	)
	if filter.Size != "" {
		args = append(args, filter.Size)
		where = append(where, fmt.Sprintf("size = $%d", len(args)))
	}
	if filter.MinDoors > 0 {
		args = append(args, filter.MinDoors)
		where = append(where, fmt.Sprintf("doors >= $%d", len(args)))
	}

	query := `SELECT ` + carColumns + ` FROM cars`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id ASC`

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	defer rows.Close()

	list := []model.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

func (db *Postgres) GetCar(ctx context.Context, carID int64) (*model.Car, error) {
	car, err := scanCar(db.DB.QueryRowContext(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, carID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	return car, err
}

func (db *Postgres) CreateCar(ctx context.Context, in model.CarInput) (*model.Car, error) {
	query := `
		INSERT INTO cars (size, fuel, doors, transmission)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + carColumns
	car, err := scanCar(db.DB.QueryRowContext(ctx, query, in.Size, in.Fuel, in.Doors, in.Transmission))
	if err != nil {
		return nil, fmt.Errorf("failed to create car: %w", err)
	}
	return car, nil
}

// UpdateCar replaces every field of the car. ErrNotFound when it is missing.
func (db *Postgres) UpdateCar(ctx context.Context, carID int64, in model.CarInput) (*model.Car, error) {
	query := `
		UPDATE cars
		SET size = $1, fuel = $2, doors = $3, transmission = $4
		WHERE id = $5
		RETURNING ` + carColumns
	car, err := scanCar(db.DB.QueryRowContext(ctx, query, in.Size, in.Fuel, in.Doors, in.Transmission, carID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to update car: %w", err)
	}
	return car, err
}

// DeleteCar removes the car and, through the foreign key, its trips.
func (db *Postgres) DeleteCar(ctx context.Context, carID int64) error {
	res, err := db.DB.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, carID)
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	return requireAffected(res)
}

// CreateTrip returns ErrNotFound when the car does not exist.
func (db *Postgres) CreateTrip(ctx context.Context, carID int64, in model.TripInput) (*model.Trip, error) {
	query := `
		INSERT INTO trips (start_at, end_at, description, car_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, start_at, end_at, description, car_id
	`
	var t model.Trip
	err := db.DB.QueryRowContext(ctx, query, in.Start, in.End, in.Description, carID).
		Scan(&t.ID, &t.Start, &t.End, &t.Description, &t.CarID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	return &t, nil
}

func (db *Postgres) ListTrips(ctx context.Context, carID int64) ([]model.Trip, error) {
	query := `
		SELECT id, start_at, end_at, description, car_id
		FROM trips
		WHERE car_id = $1
		ORDER BY id ASC
	`
	rows, err := db.DB.QueryContext(ctx, query, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	list := []model.Trip{}
	for rows.Next() {
		var t model.Trip
		if err := rows.Scan(&t.ID, &t.Start, &t.End, &t.Description, &t.CarID); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"wayfare/internal/domain"
)

// TripRepository define el contrato de persistencia para viajes.
type TripRepository interface {
	Create(ctx context.Context, trip domain.Trip) error
	ListByDriver(ctx context.Context, driverID string, statuses []string, limit int) ([]domain.Trip, error)
}

// PgTripRepository implementa TripRepository usando pgxpool.
type PgTripRepository struct {
	pool *pgxpool.Pool
}

func NewPgTripRepository(pool *pgxpool.Pool) *PgTripRepository {
	return &PgTripRepository{pool: pool}
}

func (r *PgTripRepository) Create(ctx context.Context, t domain.Trip) error {
	const query = `
		INSERT INTO trips (
			id, driver_id, vehicle_id, origin, destination, waypoints,
			departure_date, departure_time, arrival_date, arrival_time,
			estimated_duration, distance, available_seats, total_seats,
			price_per_seat, currency, passengers, preferences, status,
			notes, cancellation_reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`
	_, err := r.pool.Exec(ctx, query,
		t.ID, t.DriverID, t.VehicleID, t.Origin, t.Destination, t.Waypoints,
		t.DepartureDate, t.DepartureTime, t.ArrivalDate, t.ArrivalTime,
		t.EstimatedDuration, t.Distance, t.AvailableSeats, t.TotalSeats,
		t.PricePerSeat, t.Currency, t.Passengers, t.Preferences, t.Status,
		t.Notes, t.CancellationReason, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (r *PgTripRepository) ListByDriver(ctx context.Context, driverID string, statuses []string, limit int) ([]domain.Trip, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT id, driver_id, vehicle_id, origin, destination,
		       departure_date, departure_time, available_seats, total_seats,
		       price_per_seat, currency, status, created_at, updated_at
		FROM trips
		WHERE driver_id = $1 AND status = ANY($2)
		ORDER BY departure_date DESC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, driverID, statuses, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		var t domain.Trip
		if err := rows.Scan(
			&t.ID, &t.DriverID, &t.VehicleID, &t.Origin, &t.Destination,
			&t.DepartureDate, &t.DepartureTime, &t.AvailableSeats, &t.TotalSeats,
			&t.PricePerSeat, &t.Currency, &t.Status, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

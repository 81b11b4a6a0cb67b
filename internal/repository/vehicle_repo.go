package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"wayfare/internal/domain"
)

// VehicleRepository define el contrato de persistencia para vehiculos.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle domain.Vehicle) error
	ListActiveByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error)
}

// PgVehicleRepository implementa VehicleRepository usando pgxpool.
type PgVehicleRepository struct {
	pool *pgxpool.Pool
}

func NewPgVehicleRepository(pool *pgxpool.Pool) *PgVehicleRepository {
	return &PgVehicleRepository{pool: pool}
}

func (r *PgVehicleRepository) Create(ctx context.Context, v domain.Vehicle) error {
	const query = `
		INSERT INTO vehicles (
			id, owner_id, brand, model, year, color, license_plate,
			category, seats, comfort, features, photos,
			is_verified, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.pool.Exec(ctx, query,
		v.ID, v.OwnerID, v.Brand, v.Model, v.Year, v.Color, v.LicensePlate,
		v.Category, v.Seats, v.Comfort, v.Features, v.Photos,
		v.IsVerified, v.IsActive, v.CreatedAt, v.UpdatedAt,
	)
	return err
}

func (r *PgVehicleRepository) ListActiveByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error) {
	const query = `
		SELECT id, owner_id, brand, model, year, color,
		       category, seats, comfort, features, photos,
		       is_verified, is_active, created_at, updated_at
		FROM vehicles
		WHERE owner_id = $1 AND is_active
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(
			&v.ID, &v.OwnerID, &v.Brand, &v.Model, &v.Year, &v.Color,
			&v.Category, &v.Seats, &v.Comfort, &v.Features, &v.Photos,
			&v.IsVerified, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

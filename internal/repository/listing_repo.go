package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"wayfare/internal/domain"
)

// ListingRepository define el contrato de persistencia para publicaciones.
type ListingRepository interface {
	Create(ctx context.Context, listing domain.Listing) error
	ListPublishedByHost(ctx context.Context, hostID string, limit int) ([]domain.Listing, error)
}

// PgListingRepository implementa ListingRepository usando pgxpool.
type PgListingRepository struct {
	pool *pgxpool.Pool
}

func NewPgListingRepository(pool *pgxpool.Pool) *PgListingRepository {
	return &PgListingRepository{pool: pool}
}

func (r *PgListingRepository) Create(ctx context.Context, l domain.Listing) error {
	const query = `
		INSERT INTO listings (
			id, host_id, title, description, property_type, room_type,
			location, capacity, amenities, photos, pricing, house_rules,
			cancellation_policy, instant_booking, status, is_verified,
			rating, review_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err := r.pool.Exec(ctx, query,
		l.ID, l.HostID, l.Title, l.Description, l.PropertyType, l.RoomType,
		l.Location, l.Capacity, l.Amenities, l.Photos, l.Pricing, l.HouseRules,
		l.CancellationPolicy, l.InstantBooking, l.Status, l.IsVerified,
		l.Rating, l.ReviewCount, l.CreatedAt, l.UpdatedAt,
	)
	return err
}

func (r *PgListingRepository) ListPublishedByHost(ctx context.Context, hostID string, limit int) ([]domain.Listing, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT id, host_id, title, description, property_type, room_type,
		       location, capacity, photos, pricing, status, is_verified,
		       rating, review_count, created_at, updated_at
		FROM listings
		WHERE host_id = $1 AND status = 'published'
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, hostID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(
			&l.ID, &l.HostID, &l.Title, &l.Description, &l.PropertyType, &l.RoomType,
			&l.Location, &l.Capacity, &l.Photos, &l.Pricing, &l.Status, &l.IsVerified,
			&l.Rating, &l.ReviewCount, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

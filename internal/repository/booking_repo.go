package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"wayfare/internal/domain"
)

// BookingRepository define el contrato de persistencia para reservas.
type BookingRepository interface {
	Create(ctx context.Context, booking domain.Booking) error
	ListByGuest(ctx context.Context, guestID string, limit int) ([]domain.BookingDetail, error)
}

// PgBookingRepository implementa BookingRepository usando pgxpool.
type PgBookingRepository struct {
	pool *pgxpool.Pool
}

func NewPgBookingRepository(pool *pgxpool.Pool) *PgBookingRepository {
	return &PgBookingRepository{pool: pool}
}

func (r *PgBookingRepository) Create(ctx context.Context, b domain.Booking) error {
	const query = `
		INSERT INTO bookings (
			id, guest_id, host_id, listing_id, check_in_date, check_out_date,
			guests, number_of_nights, pricing, payment, status,
			special_requests, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.pool.Exec(ctx, query,
		b.ID, b.GuestID, b.HostID, b.ListingID, b.CheckInDate, b.CheckOutDate,
		b.Guests, b.NumberOfNights, b.Pricing, b.Payment, b.Status,
		b.SpecialRequests, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func (r *PgBookingRepository) ListByGuest(ctx context.Context, guestID string, limit int) ([]domain.BookingDetail, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT b.id, b.guest_id, b.host_id, b.listing_id,
		       b.check_in_date, b.check_out_date, b.status, b.pricing,
		       b.created_at, b.updated_at,
		       l.title, l.property_type, l.location->>'city', COALESCE(l.photos[1], ''), (l.pricing->>'basePrice')::float8,
		       h.fullname, h.nickname, h.profile_pic, h.trust_score
		FROM bookings b
		JOIN listings l ON l.id = b.listing_id
		JOIN users h ON h.id = b.host_id
		WHERE b.guest_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, guestID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.BookingDetail
	for rows.Next() {
		var d domain.BookingDetail
		listing := &domain.ListingCard{}
		host := &domain.UserCard{}
		if err := rows.Scan(
			&d.ID, &d.GuestID, &d.HostID, &d.ListingID,
			&d.CheckInDate, &d.CheckOutDate, &d.Status, &d.Pricing,
			&d.CreatedAt, &d.UpdatedAt,
			&listing.Title, &listing.PropertyType, &listing.City, &listing.Photo, &listing.BasePrice,
			&host.Fullname, &host.Nickname, &host.ProfilePic, &host.TrustScore,
		); err != nil {
			return nil, err
		}
		listing.ID = d.ListingID
		host.ID = d.HostID
		d.Listing = listing
		d.Host = host
		bookings = append(bookings, d)
	}
	return bookings, rows.Err()
}

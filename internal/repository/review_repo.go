package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"wayfare/internal/domain"
)

// ReviewRepository define el contrato de persistencia para reseñas.
type ReviewRepository interface {
	Create(ctx context.Context, review domain.Review) error
	ListReceived(ctx context.Context, recipientID string, limit int) ([]domain.ReviewDetail, error)
	ListGiven(ctx context.Context, authorID string, limit int) ([]domain.ReviewDetail, error)
}

// PgReviewRepository implementa ReviewRepository usando pgxpool.
type PgReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPgReviewRepository(pool *pgxpool.Pool) *PgReviewRepository {
	return &PgReviewRepository{pool: pool}
}

func (r *PgReviewRepository) Create(ctx context.Context, rev domain.Review) error {
	const query = `
		INSERT INTO reviews (
			id, author_id, recipient_id, review_type,
			related_trip_id, related_listing_id, related_booking_id,
			rating, comment, photos, is_visible, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		rev.ID, rev.AuthorID, rev.RecipientID, rev.ReviewType,
		rev.RelatedTripID, rev.RelatedListingID, rev.RelatedBookingID,
		rev.Rating, rev.Comment, rev.Photos, rev.IsVisible, rev.CreatedAt, rev.UpdatedAt,
	)
	return err
}

// ListReceived devuelve las reseñas visibles recibidas, con la tarjeta del autor.
func (r *PgReviewRepository) ListReceived(ctx context.Context, recipientID string, limit int) ([]domain.ReviewDetail, error) {
	const query = `
		SELECT r.id, r.author_id, r.recipient_id, r.review_type,
		       r.rating, r.comment, r.created_at,
		       a.fullname, a.nickname, a.profile_pic, a.trust_score
		FROM reviews r
		JOIN users a ON a.id = r.author_id
		WHERE r.recipient_id = $1 AND r.is_visible
		ORDER BY r.created_at DESC
		LIMIT $2
	`
	return r.list(ctx, query, recipientID, limit, true)
}

// ListGiven devuelve las reseñas escritas, con la tarjeta del destinatario.
func (r *PgReviewRepository) ListGiven(ctx context.Context, authorID string, limit int) ([]domain.ReviewDetail, error) {
	const query = `
		SELECT r.id, r.author_id, r.recipient_id, r.review_type,
		       r.rating, r.comment, r.created_at,
		       u.fullname, u.nickname, u.profile_pic, u.trust_score
		FROM reviews r
		JOIN users u ON u.id = r.recipient_id
		WHERE r.author_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2
	`
	return r.list(ctx, query, authorID, limit, false)
}

func (r *PgReviewRepository) list(ctx context.Context, query, userID string, limit int, cardIsAuthor bool) ([]domain.ReviewDetail, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.ReviewDetail
	for rows.Next() {
		var d domain.ReviewDetail
		card := &domain.UserCard{}
		if err := rows.Scan(
			&d.ID, &d.AuthorID, &d.RecipientID, &d.ReviewType,
			&d.Rating, &d.Comment, &d.CreatedAt,
			&card.Fullname, &card.Nickname, &card.ProfilePic, &card.TrustScore,
		); err != nil {
			return nil, err
		}
		if cardIsAuthor {
			card.ID = d.AuthorID
			d.Author = card
		} else {
			card.ID = d.RecipientID
			d.Recipient = card
		}
		reviews = append(reviews, d)
	}
	return reviews, rows.Err()
}

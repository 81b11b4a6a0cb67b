package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"wayfare/internal/domain"
)

// ConnectionRepository define el contrato de persistencia para conexiones.
type ConnectionRepository interface {
	Create(ctx context.Context, connection domain.Connection) error
	ListForUser(ctx context.Context, userID string, limit int) ([]domain.ConnectionDetail, error)
}

// PgConnectionRepository implementa ConnectionRepository usando pgxpool.
type PgConnectionRepository struct {
	pool *pgxpool.Pool
}

func NewPgConnectionRepository(pool *pgxpool.Pool) *PgConnectionRepository {
	return &PgConnectionRepository{pool: pool}
}

func (r *PgConnectionRepository) Create(ctx context.Context, c domain.Connection) error {
	const query = `
		INSERT INTO connections (
			id, requester_id, recipient_id, status, message, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		c.ID, c.RequesterID, c.RecipientID, c.Status, c.Message, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *PgConnectionRepository) ListForUser(ctx context.Context, userID string, limit int) ([]domain.ConnectionDetail, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT c.id, c.requester_id, c.recipient_id, c.status, c.created_at, c.updated_at,
		       rq.fullname, rq.nickname, rq.profile_pic, rq.trust_score,
		       rc.fullname, rc.nickname, rc.profile_pic, rc.trust_score
		FROM connections c
		JOIN users rq ON rq.id = c.requester_id
		JOIN users rc ON rc.id = c.recipient_id
		WHERE c.requester_id = $1 OR c.recipient_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var connections []domain.ConnectionDetail
	for rows.Next() {
		var d domain.ConnectionDetail
		requester := &domain.UserCard{}
		recipient := &domain.UserCard{}
		if err := rows.Scan(
			&d.ID, &d.RequesterID, &d.RecipientID, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&requester.Fullname, &requester.Nickname, &requester.ProfilePic, &requester.TrustScore,
			&recipient.Fullname, &recipient.Nickname, &recipient.ProfilePic, &recipient.TrustScore,
		); err != nil {
			return nil, err
		}
		requester.ID = d.RequesterID
		recipient.ID = d.RecipientID
		d.Requester = requester
		d.Recipient = recipient
		connections = append(connections, d)
	}
	return connections, rows.Err()
}

package repository

import (
	"context"

	"cashdunia/internal/domain"
)

type OfferRepository struct {
	db querier
}

func NewOfferRepository(db querier) *OfferRepository {
	return &OfferRepository{db: db}
}

// InsertOffer appends a completed level offer.
func (r *OfferRepository) InsertOffer(ctx context.Context, o *domain.OfferHistory) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO offer_history (user_id, level, offer_type, coins_awarded)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		o.UserID, o.Level, o.OfferType, o.CoinsAwarded,
	).Scan(&o.ID, &o.CreatedAt)
}

// OffersByUser returns completed offers, newest first.
func (r *OfferRepository) OffersByUser(ctx context.Context, userID int64, limit int) ([]domain.OfferHistory, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, level, offer_type, coins_awarded, created_at
		 FROM offer_history
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, defaultLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []domain.OfferHistory
	for rows.Next() {
		var o domain.OfferHistory
		if err := rows.Scan(&o.ID, &o.UserID, &o.Level, &o.OfferType, &o.CoinsAwarded, &o.CreatedAt); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

package domain

import "time"

type OfferType string

const (
	OfferSimple  OfferType = "simple"
	OfferInstall OfferType = "install"
)

// OfferHistory is appended once per completed level offer.
type OfferHistory struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Level        int       `db:"level" json:"level"`
	OfferType    OfferType `db:"offer_type" json:"offer_type"`
	CoinsAwarded int64     `db:"coins_awarded" json:"coins_awarded"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Listing представляет объявление об обмене.
// Запись с истёкшим expires_at считается логически удалённой:
// она физически вычищается при ближайшем чтении или записи ленты.
type Listing struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"-"`
	ImageURL         string     `json:"imageUrl"`
	OfferText        string     `json:"offerText"`
	WantText         string     `json:"wantText"`
	Region           *string    `json:"region"`
	AvailabilityNote *string    `json:"availabilityNote"`
	Created          time.Time  `json:"createdAt"`
	ExpiresAt        *time.Time `json:"expiresAt"`
	User             *User      `json:"user,omitempty"`
	Tags             []*Tag     `json:"tags"`
}

// Expired сообщает, истекло ли объявление на момент now.
func (l *Listing) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(now)
}

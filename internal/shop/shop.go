package shop

import (
	"time"

	"github.com/google/uuid"
)

type Shop struct {
	ID         uuid.UUID `json:"id"`
	ShopID     string    `json:"shopId"`
	ShopName   string    `json:"shopName"`
	SellerName string    `json:"sellerName"`
	OpenID     string    `json:"openId"`
	Region     string    `json:"region"`
	Status     Status    `json:"status"`

	// AccessExpiresAt comes from the shop's token record when one exists.
	AccessExpiresAt *time.Time `json:"accessExpiresAt,omitempty"`

	AuthorizedAt time.Time `json:"authorizedAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EffectiveStatus reports the status as of now. A shop stored as authorized
// whose access token expiry has passed reads as expired; the durable
// transition happens on the next refresh.
func (s *Shop) EffectiveStatus(now time.Time) Status {
	if s.Status == StatusAuthorized && s.AccessExpiresAt != nil && s.AccessExpiresAt.Before(now) {
		return StatusExpired
	}
	return s.Status
}

package token

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("token record not found")

// Record is the authorization state stored per shop: the current token pair
// and when each half expires. Tokens are plaintext in memory and AES-GCM
// ciphertext in the database.
type Record struct {
	ShopID           string
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

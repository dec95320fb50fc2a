package events

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
)

const (
	TypeAuthorized = "authorized"
	TypeRefreshed  = "refreshed"
	TypeRevoked    = "revoked"
)

// Insert appends an authorization event for the shop. Runs inside the same
// transaction as the shop/token mutation it describes.
func Insert(ctx context.Context, tx pgx.Tx, shopID, eventType, summary string, data any) error {
	var s *string
	if data != nil {
		b, _ := json.Marshal(data)
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO auth_events (shop_id, event_type, summary, data)
VALUES ($1, $2, $3, CAST($4 AS jsonb))
`
	_, err := tx.Exec(ctx, q, shopID, eventType, summary, s)
	return err
}

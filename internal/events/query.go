package events

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Event struct {
	ID         int64  `json:"id"`
	ShopID     string `json:"shopId"`
	EventType  string `json:"eventType"`
	Summary    string `json:"summary"`
	OccurredAt string `json:"occurredAt"`
	Data       any    `json:"data,omitempty"`
}

func ListByShop(ctx context.Context, db *pgxpool.Pool, shopID string) ([]Event, error) {
	const q = `
SELECT id, shop_id, event_type, summary, occurred_at::text, COALESCE(data, '{}'::jsonb)
FROM auth_events
WHERE shop_id = $1
ORDER BY occurred_at DESC, id DESC
`
	rows, err := db.Query(ctx, q, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.ShopID, &e.EventType, &e.Summary, &e.OccurredAt, &e.Data); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

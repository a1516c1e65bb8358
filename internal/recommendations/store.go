package recommendations

import "context"

// Store keeps the latest recommendations per ticket. Replace discards
// whatever was stored for the ticket before.
type Store interface {
	Replace(ctx context.Context, ticketID string, recs []Recommendation) error
	Get(ctx context.Context, ticketID string) ([]Recommendation, error)
}

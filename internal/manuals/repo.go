package manuals

import "context"

// Repo persists processed manuals. Save overwrites any manual with the same
// id; List returns manuals in first-insertion order.
type Repo interface {
	Save(ctx context.Context, m Manual) error
	Get(ctx context.Context, id string) (Manual, error)
	List(ctx context.Context) ([]Manual, error)
	Delete(ctx context.Context, id string) (bool, error)
}

package manuals

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Sections are stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

// Save upserts a manual. created_at is kept on overwrite so List order is stable.
func (r *PGRepo) Save(ctx context.Context, m Manual) error {
	const query = `
INSERT INTO manuals (
    id,
    name,
    status,
    sections,
    uploaded_at,
    processed_at,
    source_key
) VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    status = EXCLUDED.status,
    sections = EXCLUDED.sections,
    uploaded_at = EXCLUDED.uploaded_at,
    processed_at = EXCLUDED.processed_at,
    source_key = EXCLUDED.source_key`

	sections := m.Sections
	if sections == nil {
		sections = []Section{}
	}
	raw, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}

	var sourceKey sql.NullString
	if m.SourceKey != "" {
		sourceKey = sql.NullString{String: m.SourceKey, Valid: true}
	}

	_, err = r.DB.ExecContext(ctx, query,
		m.ID,
		m.Name,
		string(m.Status),
		raw,
		m.UploadedAt,
		m.ProcessedAt,
		sourceKey,
	)
	return err
}

// Get returns a manual by id.
func (r *PGRepo) Get(ctx context.Context, id string) (Manual, error) {
	const query = `
SELECT id, name, status, sections, uploaded_at, processed_at, source_key
FROM manuals
WHERE id = $1`
	m, err := scanManual(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Manual{}, ErrNotFound
		}
		return Manual{}, err
	}
	return m, nil
}

// List returns every manual, oldest first.
func (r *PGRepo) List(ctx context.Context) ([]Manual, error) {
	const query = `
SELECT id, name, status, sections, uploaded_at, processed_at, source_key
FROM manuals
ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Manual{}
	for rows.Next() {
		m, err := scanManual(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Delete removes a manual and reports whether a row was deleted.
func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM manuals WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanManual(row rowScanner) (Manual, error) {
	var m Manual
	var status string
	var sections []byte
	var sourceKey sql.NullString
	if err := row.Scan(&m.ID, &m.Name, &status, &sections, &m.UploadedAt, &m.ProcessedAt, &sourceKey); err != nil {
		return Manual{}, err
	}
	m.Status = Status(status)
	m.Sections = []Section{}
	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &m.Sections); err != nil {
			return Manual{}, fmt.Errorf("decode sections for %s: %w", m.ID, err)
		}
	}
	if sourceKey.Valid {
		m.SourceKey = sourceKey.String
	}
	return m, nil
}

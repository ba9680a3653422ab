package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const schema = `
CREATE TABLE IF NOT EXISTS dcf_inputs (
	ticker     TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS dcf_inputs_name_idx ON dcf_inputs (lower(name));
`

// PresetRepo stores presets in the dcf_inputs table, one JSONB document per
// ticker.
type PresetRepo struct {
	db DB
}

func NewPresetRepo(db DB) *PresetRepo {
	return &PresetRepo{db: db}
}

// EnsureSchema creates the table and index if they are missing.
func (r *PresetRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create dcf_inputs: %w", err)
	}
	return nil
}

// Save upserts the preset by ticker.
func (r *PresetRepo) Save(ctx context.Context, p Preset) error {
	ticker, err := normalizeTicker(p.Ticker)
	if err != nil {
		return err
	}
	data, err := json.Marshal(p.Inputs)
	if err != nil {
		return fmt.Errorf("failed to marshal inputs: %w", err)
	}
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}

	query := `
		INSERT INTO dcf_inputs (ticker, name, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticker)
		DO UPDATE SET
			name = EXCLUDED.name,
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.Exec(ctx, query, ticker, p.Name, data, updated); err != nil {
		return fmt.Errorf("failed to save preset %s: %w", ticker, err)
	}
	return nil
}

func (r *PresetRepo) Get(ctx context.Context, ticker string) (Preset, error) {
	t, err := normalizeTicker(ticker)
	if err != nil {
		return Preset{}, err
	}

	p := Preset{Ticker: t}
	var data []byte
	err = r.db.QueryRow(ctx, `SELECT name, data, updated_at FROM dcf_inputs WHERE ticker = $1`, t).
		Scan(&p.Name, &data, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Preset{}, fmt.Errorf("%w: %s", ErrNotFound, t)
	}
	if err != nil {
		return Preset{}, fmt.Errorf("failed to load preset %s: %w", t, err)
	}
	if err := json.Unmarshal(data, &p.Inputs); err != nil {
		return Preset{}, fmt.Errorf("failed to unmarshal preset %s: %w", t, err)
	}
	return p, nil
}

// Search matches query as a case-insensitive prefix of ticker or name.
func (r *PresetRepo) Search(ctx context.Context, query string, limit int) ([]Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Match{}, nil
	}

	sql := `
		SELECT ticker, name FROM dcf_inputs
		WHERE ticker ILIKE $1 OR name ILIKE $1
		ORDER BY (ticker ILIKE $1) DESC, ticker, name
		LIMIT $2`

	rows, err := r.db.Query(ctx, sql, escapeLike(query)+"%", clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search presets: %w", err)
	}
	matches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Match, error) {
		var m Match
		err := row.Scan(&m.Ticker, &m.Name)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}
	if matches == nil {
		matches = []Match{}
	}
	return matches, nil
}

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

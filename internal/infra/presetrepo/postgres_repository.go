package presetrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/lunar-calendar/internal/domain/lunar"
)

// PostgresRepository implements lunar.PresetRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the preset table and seeds it when empty.
func (r *PostgresRepository) EnsureSchema(ctx context.Context, seed []lunar.Preset) error {
	if _, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS preset_locations (
			value    TEXT PRIMARY KEY,
			label    TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		)
	`); err != nil {
		return fmt.Errorf("create preset_locations: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM preset_locations`).Scan(&count); err != nil {
		return fmt.Errorf("count preset_locations: %w", err)
	}
	if count > 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, p := range seed {
		if p.Value == lunar.CustomPresetValue {
			continue
		}
		batch.Queue(`
			INSERT INTO preset_locations (value, label, position)
			VALUES ($1, $2, $3)
			ON CONFLICT (value) DO NOTHING
		`, p.Value, p.Label, i)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed preset_locations: %w", err)
	}
	return nil
}

// ListPresets returns the custom entry followed by the stored cities.
func (r *PostgresRepository) ListPresets(ctx context.Context) ([]lunar.Preset, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT value, label
		FROM preset_locations
		ORDER BY position, label
	`)
	if err != nil {
		return nil, err
	}
	stored, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (lunar.Preset, error) {
		var p lunar.Preset
		err := row.Scan(&p.Value, &p.Label)
		return p, err
	})
	if err != nil {
		return nil, err
	}

	presets := make([]lunar.Preset, 0, len(stored)+1)
	presets = append(presets, lunar.Preset{Value: lunar.CustomPresetValue, Label: "Custom"})
	for _, p := range stored {
		if p.Value == lunar.CustomPresetValue {
			continue
		}
		presets = append(presets, p)
	}
	return presets, nil
}

var _ lunar.PresetRepository = (*PostgresRepository)(nil)

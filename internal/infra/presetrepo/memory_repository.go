package presetrepo

import (
	"context"
	"sync"

	"github.com/yanqian/lunar-calendar/internal/domain/lunar"
)

// MemoryRepository serves the preset table from process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	presets []lunar.Preset
}

// NewMemoryRepository seeds the repository with the built-in city table.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{presets: lunar.DefaultPresets()}
}

// ListPresets returns a copy of the table.
func (r *MemoryRepository) ListPresets(_ context.Context) ([]lunar.Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]lunar.Preset, len(r.presets))
	copy(out, r.presets)
	return out, nil
}

// Add appends a preset, replacing the label of an existing value.
func (r *MemoryRepository) Add(_ context.Context, preset lunar.Preset) error {
	if _, ok := preset.Location(); !ok {
		return lunar.ErrInvalidLocation
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.presets {
		if r.presets[i].Value == preset.Value {
			r.presets[i].Label = preset.Label
			return nil
		}
	}
	r.presets = append(r.presets, preset)
	return nil
}

var _ lunar.PresetRepository = (*MemoryRepository)(nil)

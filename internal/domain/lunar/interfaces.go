package lunar

import (
	"context"
	"time"
)

// PlaceResolver turns coordinates into a human-readable place name. It never
// fails: an unresolved lookup returns Resolved=false.
type PlaceResolver interface {
	ResolvePlace(ctx context.Context, loc Location) PlaceName
}

// PlaceCache memoizes resolved place names by Location.Key.
type PlaceCache interface {
	GetPlace(ctx context.Context, key string) (string, bool, error)
	SavePlace(ctx context.Context, key, name string, ttl time.Duration) error
}

// PresetRepository lists the selectable locations.
type PresetRepository interface {
	ListPresets(ctx context.Context) ([]Preset, error)
}

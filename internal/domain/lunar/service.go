package lunar

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/lunar-calendar/pkg/errors"
	"github.com/yanqian/lunar-calendar/pkg/metrics"
)

// Service exposes the lunar calendar to transports.
type Service interface {
	Calendar(ctx context.Context, req CalendarRequest) (CalendarResponse, error)
	Inspect(ctx context.Context, req InspectRequest) (TooltipPayload, error)
	Years() []int
	Presets(ctx context.Context) ([]Preset, error)
	Place(ctx context.Context, loc Location) (PlaceName, error)
}

type service struct {
	cfg      Config
	builder  *GridBuilder
	presets  PresetRepository
	resolver PlaceResolver
	cache    PlaceCache
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the lunar domain. resolver and cache may be nil, in which
// case titles fall back to bare coordinates.
func NewService(cfg Config, presets PresetRepository, resolver PlaceResolver, cache PlaceCache, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		builder:  NewGridBuilder(cfg.Workers),
		presets:  presets,
		resolver: resolver,
		cache:    cache,
		logger:   logger.With("component", "lunar.service"),
		now:      time.Now,
	}
}

func (s *service) Calendar(ctx context.Context, req CalendarRequest) (CalendarResponse, error) {
	presets, err := s.Presets(ctx)
	if err != nil {
		return CalendarResponse{}, err
	}

	loc := Location{Latitude: req.Latitude, Longitude: req.Longitude}
	label := ""
	preset := strings.TrimSpace(req.Preset)
	if preset != "" && preset != CustomPresetValue {
		p, ok := FindPreset(presets, preset)
		if !ok {
			return CalendarResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "unknown preset location", ErrUnknownPreset)
		}
		at, ok := p.Location()
		if !ok {
			return CalendarResponse{}, apperrors.Wrap(apperrors.CodePresetError, "preset has malformed coordinates", ErrInvalidLocation)
		}
		loc, label = at, p.Label
	}
	if err := loc.Validate(); err != nil {
		return CalendarResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "latitude must be within [-90, 90] and longitude within [-180, 180]", err)
	}
	if label == "" {
		if p, ok := MatchPreset(presets, loc); ok {
			label = p.Label
		}
	}

	start := s.now()
	grid, err := s.builder.Build(ctx, req.Year, loc)
	if err != nil {
		return CalendarResponse{}, apperrors.Wrap(apperrors.CodeGridError, "failed to build year grid", err)
	}
	total, occupied := grid.CellCount()
	stats := metrics.NewBuildStats(total, occupied, start)
	s.logger.Info("lunar grid built", "year", req.Year, "location", loc.Key(), "cells", total, "duration_ms", stats.DurationMs)

	resp := CalendarResponse{Grid: grid, Stats: stats}
	switch {
	case label != "":
		resp.Place = label
		resp.PlaceResolved = true
	case s.resolver != nil:
		place := s.resolvePlace(ctx, loc)
		resp.Place = place.Name
		resp.PlaceResolved = place.Resolved
		label = place.Name
	}
	resp.Title = Title(req.Year, label, loc)
	return resp, nil
}

func (s *service) Inspect(_ context.Context, req InspectRequest) (TooltipPayload, error) {
	date, err := NewCalendarDate(req.Year, req.Month, req.Day)
	if err != nil {
		return TooltipPayload{}, apperrors.Wrap(apperrors.CodeImpossibleDate, "day does not exist in that month", err)
	}
	loc := Location{Latitude: req.Latitude, Longitude: req.Longitude}
	cell, err := BuildCell(date, loc)
	if err != nil {
		return TooltipPayload{}, apperrors.Wrap(apperrors.CodeInvalidInput, "latitude must be within [-90, 90] and longitude within [-180, 180]", err)
	}
	payload, err := Inspect(cell)
	if err != nil {
		return TooltipPayload{}, apperrors.Wrap(apperrors.CodeUnoccupiedCell, "cell has no illumination", err)
	}
	return payload, nil
}

func (s *service) Years() []int {
	return YearOptionsAt(s.now())
}

func (s *service) Presets(ctx context.Context) ([]Preset, error) {
	if s.presets == nil {
		return DefaultPresets(), nil
	}
	presets, err := s.presets.ListPresets(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePresetError, "failed to list preset locations", err)
	}
	return presets, nil
}

func (s *service) Place(ctx context.Context, loc Location) (PlaceName, error) {
	if err := loc.Validate(); err != nil {
		return PlaceName{}, apperrors.Wrap(apperrors.CodeInvalidInput, "latitude must be within [-90, 90] and longitude within [-180, 180]", err)
	}
	if s.resolver == nil {
		return PlaceName{Name: UnknownLocation}, nil
	}
	return s.resolvePlace(ctx, loc), nil
}

// resolvePlace consults the cache before the resolver. Cache failures are logged
// and skipped; only resolved names are cached.
func (s *service) resolvePlace(ctx context.Context, loc Location) PlaceName {
	key := loc.Key()
	if s.cache != nil {
		name, ok, err := s.cache.GetPlace(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn("place cache lookup failed", "key", key, "error", err)
		case ok:
			return PlaceName{Name: name, Resolved: true}
		}
	}

	place := s.resolver.ResolvePlace(ctx, loc)
	if place.Name == "" {
		place.Name = UnknownLocation
	}
	if !place.Resolved {
		if errors.Is(ctx.Err(), context.Canceled) {
			s.logger.Debug("place lookup abandoned", "key", key)
		}
		return place
	}
	if s.cache != nil {
		if err := s.cache.SavePlace(ctx, key, place.Name, s.cfg.PlaceTTL); err != nil {
			s.logger.Warn("place cache save failed", "key", key, "error", err)
		}
	}
	return place
}

package lunar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// CustomPresetValue marks a free-form coordinate selection.
	CustomPresetValue = "custom"
	// UnknownLocation is the place name used when a lookup yields nothing.
	UnknownLocation = "Unknown Location"
)

// Validate rejects non-finite or out-of-range coordinates.
func (l Location) Validate() error {
	switch {
	case math.IsNaN(l.Latitude) || math.IsInf(l.Latitude, 0):
		return fmt.Errorf("%w: latitude is not finite", ErrInvalidLocation)
	case math.IsNaN(l.Longitude) || math.IsInf(l.Longitude, 0):
		return fmt.Errorf("%w: longitude is not finite", ErrInvalidLocation)
	case l.Latitude < -90 || l.Latitude > 90:
		return fmt.Errorf("%w: latitude %g outside [-90, 90]", ErrInvalidLocation, l.Latitude)
	case l.Longitude < -180 || l.Longitude > 180:
		return fmt.Errorf("%w: longitude %g outside [-180, 180]", ErrInvalidLocation, l.Longitude)
	}
	return nil
}

// Key is a stable four-decimal identifier, used for cache keys.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f,%.4f", l.Latitude, l.Longitude)
}

// ParseCoordinates parses a "lat,lng" preset value.
func ParseCoordinates(value string) (Location, error) {
	latRaw, lngRaw, ok := strings.Cut(strings.TrimSpace(value), ",")
	if !ok {
		return Location{}, fmt.Errorf("%w: %q is not \"lat,lng\"", ErrInvalidLocation, value)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return Location{}, fmt.Errorf("%w: latitude: %v", ErrInvalidLocation, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngRaw), 64)
	if err != nil {
		return Location{}, fmt.Errorf("%w: longitude: %v", ErrInvalidLocation, err)
	}
	loc := Location{Latitude: lat, Longitude: lng}
	if err := loc.Validate(); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// Location parses the preset's coordinates. Custom presets have none.
func (p Preset) Location() (Location, bool) {
	if p.Value == CustomPresetValue {
		return Location{}, false
	}
	loc, err := ParseCoordinates(p.Value)
	if err != nil {
		return Location{}, false
	}
	return loc, true
}

// FindPreset looks a preset up by value.
func FindPreset(presets []Preset, value string) (Preset, bool) {
	for _, p := range presets {
		if p.Value == value {
			return p, true
		}
	}
	return Preset{}, false
}

// MatchPreset returns the first non-custom preset located exactly at loc.
func MatchPreset(presets []Preset, loc Location) (Preset, bool) {
	for _, p := range presets {
		if at, ok := p.Location(); ok && at == loc {
			return p, true
		}
	}
	return Preset{}, false
}

// Title renders the calendar heading. An empty label leaves only the coordinates.
func Title(year int, label string, loc Location) string {
	if label == "" {
		return fmt.Sprintf("%d | %.4f°, %.4f°", year, loc.Latitude, loc.Longitude)
	}
	return fmt.Sprintf("%d | %s (%.4f°, %.4f°)", year, label, loc.Latitude, loc.Longitude)
}

// DefaultPresets returns a copy of the built-in city table.
func DefaultPresets() []Preset {
	out := make([]Preset, len(defaultPresets))
	copy(out, defaultPresets)
	return out
}

var defaultPresets = []Preset{
	{Value: CustomPresetValue, Label: "Custom"},
	{Value: "40.7128,-74.0060", Label: "New York City, USA"},
	{Value: "34.0522,-118.2437", Label: "Los Angeles, USA"},
	{Value: "41.8781,-87.6298", Label: "Chicago, USA"},
	{Value: "29.7604,-95.3698", Label: "Houston, USA"},
	{Value: "33.4484,-112.0740", Label: "Phoenix, USA"},
	{Value: "39.9526,-75.1652", Label: "Philadelphia, USA"},
	{Value: "32.7767,-96.7970", Label: "Dallas, USA"},
	{Value: "37.7749,-122.4194", Label: "San Francisco, USA"},
	{Value: "47.6062,-122.3321", Label: "Seattle, USA"},
	{Value: "25.7617,-80.1918", Label: "Miami, USA"},
	{Value: "42.3601,-71.0589", Label: "Boston, USA"},
	{Value: "43.6532,-79.3832", Label: "Toronto, Canada"},
	{Value: "45.5017,-73.5673", Label: "Montreal, Canada"},
	{Value: "49.2827,-123.1207", Label: "Vancouver, Canada"},
	{Value: "51.5074,-0.1278", Label: "London, UK"},
	{Value: "55.7558,37.6176", Label: "Moscow, Russia"},
	{Value: "48.8566,2.3522", Label: "Paris, France"},
	{Value: "52.5200,13.4050", Label: "Berlin, Germany"},
	{Value: "41.9028,12.4964", Label: "Rome, Italy"},
	{Value: "40.4168,-3.7038", Label: "Madrid, Spain"},
	{Value: "59.3293,18.0686", Label: "Stockholm, Sweden"},
	{Value: "60.1699,24.9384", Label: "Helsinki, Finland"},
	{Value: "55.6761,12.5683", Label: "Copenhagen, Denmark"},
	{Value: "47.3769,8.5417", Label: "Zurich, Switzerland"},
	{Value: "50.0755,14.4378", Label: "Prague, Czech Republic"},
	{Value: "35.6762,139.6503", Label: "Tokyo, Japan"},
	{Value: "37.5665,126.9780", Label: "Seoul, South Korea"},
	{Value: "39.9042,116.4074", Label: "Beijing, China"},
	{Value: "31.2304,121.4737", Label: "Shanghai, China"},
	{Value: "22.3193,114.1694", Label: "Hong Kong"},
	{Value: "1.3521,103.8198", Label: "Singapore"},
	{Value: "28.6139,77.2090", Label: "New Delhi, India"},
	{Value: "19.0760,72.8777", Label: "Mumbai, India"},
	{Value: "13.0827,80.2707", Label: "Chennai, India"},
	{Value: "-33.8688,151.2093", Label: "Sydney, Australia"},
	{Value: "-37.8136,144.9631", Label: "Melbourne, Australia"},
	{Value: "-27.4698,153.0251", Label: "Brisbane, Australia"},
	{Value: "-23.5505,-46.6333", Label: "São Paulo, Brazil"},
	{Value: "-22.9068,-43.1729", Label: "Rio de Janeiro, Brazil"},
	{Value: "-34.6037,-58.3816", Label: "Buenos Aires, Argentina"},
	{Value: "19.4326,-99.1332", Label: "Mexico City, Mexico"},
	{Value: "-33.4489,-70.6693", Label: "Santiago, Chile"},
	{Value: "30.0444,31.2357", Label: "Cairo, Egypt"},
	{Value: "-26.2041,28.0473", Label: "Johannesburg, South Africa"},
	{Value: "-33.9249,18.4241", Label: "Cape Town, South Africa"},
	{Value: "6.5244,3.3792", Label: "Lagos, Nigeria"},
	{Value: "41.0082,28.9784", Label: "Istanbul, Turkey"},
	{Value: "25.2048,55.2708", Label: "Dubai, UAE"},
}

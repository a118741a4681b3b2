package lunar

import (
	"time"

	"github.com/yanqian/lunar-calendar/pkg/metrics"
)

// Location is an observer position in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CalendarDate is a civil date with a zero-based month (0 = January).
// Existence of the day is checked by NewCalendarDate, not by the type.
type CalendarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// IlluminationSample pairs an input date and location with the computed fraction.
type IlluminationSample struct {
	Date     CalendarDate `json:"date"`
	Location Location     `json:"location"`
	Fraction float64      `json:"fraction"`
}

// GridCell is one (month, day) slot of a YearGrid. Fraction and Intensity are nil
// for days the month does not have.
type GridCell struct {
	Month     int      `json:"month"`
	Day       int      `json:"day"`
	Occupied  bool     `json:"occupied"`
	Fraction  *float64 `json:"fraction,omitempty"`
	Intensity *uint8   `json:"intensity,omitempty"`
}

// YearGrid holds MaxDays rows of twelve cells, row i being day i+1.
type YearGrid struct {
	Year     int          `json:"year"`
	Location Location     `json:"location"`
	MaxDays  int          `json:"maxDays"`
	Months   []string     `json:"months"`
	Rows     [][]GridCell `json:"rows"`
}

// TooltipPayload is the inspection result for a single occupied cell.
type TooltipPayload struct {
	FormattedDate       string `json:"date"`
	IlluminationPercent string `json:"illumination"`
	Phase               Phase  `json:"phase"`
}

// PlaceName is the outcome of a reverse lookup. Resolved is false when the
// collaborator had nothing better than UnknownLocation.
type PlaceName struct {
	Name     string `json:"name"`
	Resolved bool   `json:"resolved"`
}

// Preset is a selectable location. Value is "lat,lng" or CustomPresetValue.
type Preset struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CalendarRequest describes a grid build. Preset, when set to a known value,
// overrides Latitude/Longitude.
type CalendarRequest struct {
	Year      int     `json:"year" form:"year"`
	Latitude  float64 `json:"latitude" form:"lat"`
	Longitude float64 `json:"longitude" form:"lng"`
	Preset    string  `json:"preset" form:"preset"`
}

// CalendarResponse is the assembled grid plus presentation metadata.
type CalendarResponse struct {
	Title         string             `json:"title"`
	Place         string             `json:"place,omitempty"`
	PlaceResolved bool               `json:"placeResolved"`
	Grid          YearGrid           `json:"grid"`
	Stats         metrics.BuildStats `json:"stats"`
}

// InspectRequest addresses one day of one year at a location.
type InspectRequest struct {
	Year      int     `json:"year" form:"year"`
	Month     int     `json:"month" form:"month"`
	Day       int     `json:"day" form:"day"`
	Latitude  float64 `json:"latitude" form:"lat"`
	Longitude float64 `json:"longitude" form:"lng"`
}

// Config wires runtime knobs for the lunar service.
type Config struct {
	Workers  int
	PlaceTTL time.Duration
}

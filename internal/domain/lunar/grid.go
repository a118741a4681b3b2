package lunar

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// GridBuilder assembles year grids, computing months concurrently.
type GridBuilder struct {
	workers int
}

// NewGridBuilder bounds the number of months computed at once. Non-positive
// values build sequentially.
func NewGridBuilder(workers int) *GridBuilder {
	if workers <= 0 {
		workers = 1
	}
	return &GridBuilder{workers: min(workers, MonthsPerYear)}
}

// BuildYearGrid builds a grid on the calling goroutine.
func BuildYearGrid(year int, loc Location) (YearGrid, error) {
	return NewGridBuilder(1).Build(context.Background(), year, loc)
}

// Build computes every occupied cell of the year. Cells are independent, so the
// result does not depend on the worker count.
func (b *GridBuilder) Build(ctx context.Context, year int, loc Location) (YearGrid, error) {
	if err := loc.Validate(); err != nil {
		return YearGrid{}, err
	}

	maxDays := MaxDaysInYear(year)
	rows := make([][]GridCell, maxDays)
	for i := range rows {
		rows[i] = make([]GridCell, MonthsPerYear)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for month := 0; month < MonthsPerYear; month++ {
		g.Go(func() error {
			for day := 1; day <= maxDays; day++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				rows[day-1][month] = buildCell(year, month, day, loc)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return YearGrid{}, err
	}

	return YearGrid{
		Year:     year,
		Location: loc,
		MaxDays:  maxDays,
		Months:   MonthLabels(),
		Rows:     rows,
	}, nil
}

// BuildCell computes the single cell for date.
func BuildCell(date CalendarDate, loc Location) (GridCell, error) {
	if _, err := NewCalendarDate(date.Year, date.Month, date.Day); err != nil {
		return GridCell{}, err
	}
	if err := loc.Validate(); err != nil {
		return GridCell{}, err
	}
	return buildCell(date.Year, date.Month, date.Day, loc), nil
}

func buildCell(year, month, day int, loc Location) GridCell {
	cell := GridCell{Month: month, Day: day}
	if day > DaysInMonth(year, month) {
		return cell
	}
	date := CalendarDate{Year: year, Month: month, Day: day}
	fraction := illumination(daysSinceJ2000(date.Time()), loc)
	intensity := Intensity(fraction)
	cell.Occupied = true
	cell.Fraction = &fraction
	cell.Intensity = &intensity
	return cell
}

// Intensity maps a fraction to a grayscale channel value.
func Intensity(fraction float64) uint8 {
	return uint8(math.Round(clamp(fraction, 0, 1) * 255))
}

// TextTone picks a readable foreground for the cell's background.
func (c GridCell) TextTone() string {
	if c.Intensity != nil && *c.Intensity > 127 {
		return "dark"
	}
	return "light"
}

// Cell returns the cell for a zero-based month and a 1-based day.
func (g YearGrid) Cell(month, day int) (GridCell, bool) {
	if month < 0 || month >= MonthsPerYear || day < 1 || day > len(g.Rows) {
		return GridCell{}, false
	}
	return g.Rows[day-1][month], true
}

// Column returns every row of one month, occupied or not.
func (g YearGrid) Column(month int) []GridCell {
	if month < 0 || month >= MonthsPerYear {
		return nil
	}
	col := make([]GridCell, 0, len(g.Rows))
	for _, row := range g.Rows {
		col = append(col, row[month])
	}
	return col
}

// OccupiedCount is the number of occupied cells in a month.
func (g YearGrid) OccupiedCount(month int) int {
	n := 0
	for _, cell := range g.Column(month) {
		if cell.Occupied {
			n++
		}
	}
	return n
}

// CellCount returns total and occupied cell counts.
func (g YearGrid) CellCount() (total, occupied int) {
	for _, row := range g.Rows {
		for _, cell := range row {
			total++
			if cell.Occupied {
				occupied++
			}
		}
	}
	return total, occupied
}

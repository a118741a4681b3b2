package lunar

import (
	"fmt"
	"strconv"
)

// Inspect builds the tooltip for an occupied cell from its stored fraction.
func Inspect(cell GridCell) (TooltipPayload, error) {
	if !cell.Occupied || cell.Fraction == nil {
		return TooltipPayload{}, fmt.Errorf("%w: %s %d", ErrUnoccupiedCell, MonthLabel(cell.Month), cell.Day)
	}
	fraction := *cell.Fraction
	return TooltipPayload{
		FormattedDate:       FormatDate(cell.Month, cell.Day),
		IlluminationPercent: FormatPercent(fraction),
		Phase:               PhaseName(fraction),
	}, nil
}

// FormatDate renders "MMM DD", e.g. "Jan 01".
func FormatDate(month, day int) string {
	return fmt.Sprintf("%s %02d", MonthLabel(month), day)
}

// FormatPercent renders fraction*100 with one decimal.
func FormatPercent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 1, 64)
}

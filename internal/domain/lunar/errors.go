package lunar

import "errors"

var (
	// ErrInvalidLocation reports non-finite or out-of-range coordinates.
	ErrInvalidLocation = errors.New("invalid location")
	// ErrImpossibleDate reports a day the month does not have.
	ErrImpossibleDate = errors.New("impossible date")
	// ErrUnoccupiedCell is returned when inspecting a cell without a fraction.
	ErrUnoccupiedCell = errors.New("cell is not occupied")
	// ErrUnknownPreset is returned for preset values missing from the table.
	ErrUnknownPreset = errors.New("unknown preset")
)

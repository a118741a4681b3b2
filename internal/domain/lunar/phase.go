package lunar

// Phase names the visible shape of the Moon.
type Phase string

const (
	PhaseNewMoon        Phase = "New Moon"
	PhaseWaxingCrescent Phase = "Waxing Crescent"
	PhaseFirstQuarter   Phase = "First Quarter"
	PhaseWaxingGibbous  Phase = "Waxing Gibbous"
	PhaseFullMoon       Phase = "Full Moon"
	PhaseWaningGibbous  Phase = "Waning Gibbous"
	PhaseLastQuarter    Phase = "Last Quarter"
	PhaseWaningCrescent Phase = "Waning Crescent"
)

func (p Phase) String() string { return string(p) }

// PhaseName classifies an illuminated fraction. It sees no trend, only the
// instantaneous fraction, and the branches run in this fixed order: for finite
// input the sole waning label reachable is Waning Gibbous at exactly 0.9.
func PhaseName(fraction float64) Phase {
	switch {
	case fraction < 0.1:
		return PhaseNewMoon
	case fraction < 0.3:
		return PhaseWaxingCrescent
	case fraction < 0.7:
		return PhaseFirstQuarter
	case fraction < 0.9:
		return PhaseWaxingGibbous
	case fraction > 0.9:
		return PhaseFullMoon
	case fraction > 0.7:
		return PhaseWaningGibbous
	case fraction > 0.3:
		return PhaseLastQuarter
	default:
		return PhaseWaningCrescent
	}
}

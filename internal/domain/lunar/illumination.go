package lunar

import (
	"math"
	"time"
)

const (
	msPerDay = 86_400_000.0
	// j2000UnixDays is 2000-01-01T12:00Z expressed in days since the Unix epoch.
	j2000UnixDays = 10957.5

	earthRadiusKm = 6371.0

	latitudeCorrection = 0.002
	seasonalCorrection = 0.001
	daysPerYear        = 365.25

	degToRad = math.Pi / 180
)

// IlluminatedFraction returns the lit fraction of the lunar disk, in [0,1], seen
// from loc at instant t. It is a closed-form approximation good enough to shade a
// calendar; it is not an ephemeris.
func IlluminatedFraction(t time.Time, loc Location) (float64, error) {
	if err := loc.Validate(); err != nil {
		return 0, err
	}
	return illumination(daysSinceJ2000(t), loc), nil
}

// Sample evaluates a calendar date at 00:00 UTC.
func Sample(date CalendarDate, loc Location) (IlluminationSample, error) {
	f, err := IlluminatedFraction(date.Time(), loc)
	if err != nil {
		return IlluminationSample{}, err
	}
	return IlluminationSample{Date: date, Location: loc, Fraction: f}, nil
}

func daysSinceJ2000(t time.Time) float64 {
	return float64(t.UnixMilli())/msPerDay - j2000UnixDays
}

// illumination expects a validated location.
func illumination(d float64, loc Location) float64 {
	// Local time: four minutes per degree of longitude.
	d += loc.Longitude / 360

	L := normalizeDegrees(218.316 + 13.176396*d) // mean longitude
	M := normalizeDegrees(134.963 + 13.064993*d) // mean anomaly
	F := normalizeDegrees(93.272 + 13.229350*d)  // argument of latitude
	D := normalizeDegrees(297.850 + 12.190749*d) // mean elongation

	lambda := L +
		6.289*sinDeg(M) +
		1.274*sinDeg(2*D-M) +
		0.658*sinDeg(2*D) +
		0.214*sinDeg(2*M-2*D)
	beta := 5.128 * sinDeg(F)
	distance := 385_001 -
		20_905*cosDeg(M) -
		3_699*cosDeg(2*D-M) -
		2_956*cosDeg(2*D)

	sunLongitude := normalizeDegrees(280.459 + 0.98564736*d)

	// Pseudo-topocentric shift of the ecliptic position.
	parallax := math.Asin(earthRadiusKm/distance) / degToRad
	hourAngle := normalizeDegrees(280.16 + 360.9856235*d + loc.Longitude - lambda)
	lat := loc.Latitude
	lambda = normalizeDegrees(lambda - parallax*cosDeg(lat)*sinDeg(hourAngle)/cosDeg(beta))
	beta -= parallax * (sinDeg(lat)*cosDeg(beta) - cosDeg(lat)*cosDeg(hourAngle)*sinDeg(beta))

	// Phase angle is the Sun-Moon separation itself; the fraction peaks near conjunction.
	phaseAngle := math.Acos(clamp(cosDeg(beta)*cosDeg(lambda-sunLongitude), -1, 1))

	fraction := (1 + math.Cos(phaseAngle)) / 2
	fraction *= 1 + latitudeCorrection*math.Sin(lat*degToRad)*math.Sin(phaseAngle)
	fraction *= 1 + seasonalCorrection*math.Sin(2*math.Pi*d/daysPerYear+loc.Longitude*degToRad)

	return clamp(fraction, 0, 1)
}

// normalizeDegrees reduces an angle to [0,360).
func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func sinDeg(deg float64) float64 { return math.Sin(deg * degToRad) }

func cosDeg(deg float64) float64 { return math.Cos(deg * degToRad) }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

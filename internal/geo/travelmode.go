package geo

// TravelMode identifies how the visitor moves between stops.
type TravelMode string

const (
	// ModeWalk is on-foot travel.
	ModeWalk TravelMode = "walk"

	// ModeSubway is travel constrained to the fixed metro line. Stop
	// sequencing for this mode uses the line-interval strategy instead of
	// the free-roaming greedy strategy.
	ModeSubway TravelMode = "subway"

	// ModeTransit is generic bus/mixed public transport.
	ModeTransit TravelMode = "transit"

	// ModeCar is private car travel.
	ModeCar TravelMode = "car"
)

// modeProfile holds the planning assumptions for one travel mode.
type modeProfile struct {
	speedKmh      float64
	maxLegMinutes float64
}

// Profiles mirror the assumptions the planner was tuned with: a walking leg
// should stay under 20 minutes at 4 km/h, transit and car legs under 30
// minutes at their respective average speeds.
var modeProfiles = map[TravelMode]modeProfile{
	ModeWalk:    {speedKmh: 4.0, maxLegMinutes: 20},
	ModeSubway:  {speedKmh: 30.0, maxLegMinutes: 30},
	ModeTransit: {speedKmh: 20.0, maxLegMinutes: 30},
	ModeCar:     {speedKmh: 30.0, maxLegMinutes: 30},
}

// ParseTravelMode maps a wire value to a TravelMode, defaulting to transit
// for unknown values.
func ParseTravelMode(s string) TravelMode {
	switch TravelMode(s) {
	case ModeWalk, ModeSubway, ModeTransit, ModeCar:
		return TravelMode(s)
	default:
		return ModeTransit
	}
}

// SpeedKmh returns the assumed average speed for the mode.
func (m TravelMode) SpeedKmh() float64 {
	if p, ok := modeProfiles[m]; ok {
		return p.speedKmh
	}
	return modeProfiles[ModeTransit].speedKmh
}

// MaxLegMinutes returns the maximum single-leg duration for the mode.
func (m TravelMode) MaxLegMinutes() float64 {
	if p, ok := modeProfiles[m]; ok {
		return p.maxLegMinutes
	}
	return modeProfiles[ModeTransit].maxLegMinutes
}

// MaxLegKm returns the maximum single-leg distance implied by the mode's
// speed and duration threshold (walk: ~1.33km, transit: 10km, car: 15km).
func (m TravelMode) MaxLegKm() float64 {
	return m.SpeedKmh() * m.MaxLegMinutes() / 60.0
}

// TravelMinutes estimates the duration of a straight-line leg of distKm
// travelled in the given mode.
func TravelMinutes(distKm float64, mode TravelMode) float64 {
	if distKm <= 0 {
		return 0
	}
	return distKm / mode.SpeedKmh() * 60.0
}

// LegMode returns the mode actually used for a single leg. Transit and car
// users walk legs that are within the walking threshold; reporting a bus
// ride for a 400m hop would be noise.
func LegMode(distKm float64, requested TravelMode) TravelMode {
	if (requested == ModeTransit || requested == ModeCar || requested == ModeSubway) &&
		distKm <= ModeWalk.MaxLegKm() {
		return ModeWalk
	}
	return requested
}

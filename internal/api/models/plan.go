package models

// DateRange represents an inclusive visit window in calendar days.
// Dates use the YYYY-MM-DD format.
type DateRange struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// PlanRequest is the request body for the itinerary planning endpoint.
type PlanRequest struct {
	// Keywords are menu or taste keywords used to score candidates,
	// such as review vote labels. Empty means an open-ended query.
	Keywords []string `json:"keywords,omitempty"`

	// TravelMode selects how legs between stops are travelled.
	TravelMode TravelMode `json:"travelMode"`

	// Origin is the starting coordinate, if known to the client.
	Origin *Point `json:"origin,omitempty"`

	// OriginName is a free-text place name to geocode as the origin.
	// Ignored when Origin is set.
	OriginName string `json:"originName,omitempty"`

	// DateRange restricts candidates to places open at some point in
	// the window.
	DateRange *DateRange `json:"dateRange,omitempty"`

	// StartTime and EndTime bound the visit within each day, HH:MM.
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`

	// UseNow evaluates availability against the current moment instead
	// of a date range.
	UseNow bool `json:"useNow,omitempty"`

	// TourMode enables bakery-tour selection rules.
	TourMode bool `json:"tourMode,omitempty"`

	// POIIDs optionally restricts planning to the given places.
	POIIDs []string `json:"poiIds,omitempty"`
}

// PlanStop is a single stop on a planned itinerary.
type PlanStop struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Point       *Point  `json:"point,omitempty"`
	Score       float64 `json:"score"`
	WaitMinutes float64 `json:"waitMinutes"`
	Station     string  `json:"station,omitempty"`
	Arrive      string  `json:"arrive,omitempty"`
	Depart      string  `json:"depart,omitempty"`
	LastOrderAt string  `json:"lastOrderAt,omitempty"`
}

// PlanLeg is a travel segment between consecutive stops.
type PlanLeg struct {
	From            Point      `json:"from"`
	To              Point      `json:"to"`
	DistanceKm      float64    `json:"distanceKm"`
	DurationMinutes float64    `json:"durationMinutes"`
	Mode            TravelMode `json:"mode"`
}

// PlanResponse is the response body for the itinerary planning endpoint.
type PlanResponse struct {
	Stops []PlanStop `json:"stops"`
	Legs  []PlanLeg  `json:"legs"`

	// Geometry is an encoded polyline through the origin and stops.
	Geometry string `json:"geometry,omitempty"`

	// EmptyReason explains why no itinerary could be produced. Set only
	// when Stops is empty.
	EmptyReason string `json:"emptyReason,omitempty"`
}

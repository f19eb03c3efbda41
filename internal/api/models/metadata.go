package models

// Station represents a subway station on the supported line.
type Station struct {
	Name  string `json:"name"`
	Point Point  `json:"point"`
	Index int    `json:"index"`
}

// Line represents a subway line and its ordered stations.
type Line struct {
	Name     string    `json:"name"`
	Stations []Station `json:"stations"`
}

// Enums represents the enum values used by the API.
type Enums struct {
	TravelModes []TravelMode `json:"travelModes"`
	Categories  []Category   `json:"categories"`
}

// Package worker provides background job processing for TasteTrail.
package worker

import (
	"time"

	"github.com/tastetrail/tastetrail/internal/geo"
)

// AuditTarget represents one Daejeon district whose dataset coverage is
// verified by the audit job.
type AuditTarget struct {
	// Name is the district name.
	Name string

	// Center is the district's reference coordinate.
	Center geo.Coordinate

	// MinPlaces is the minimum number of locatable places expected
	// within RadiusKm of the center.
	MinPlaces int
}

// AuditConfig holds configuration for the dataset audit job.
type AuditConfig struct {
	// Targets are the districts to verify. If empty, uses
	// DefaultAuditTargets.
	Targets []AuditTarget

	// RadiusKm is the district membership radius around each center.
	// Default: 5.
	RadiusKm float64

	// Concurrency is the number of concurrent place checks.
	// Default: 3.
	Concurrency int

	// Timeout bounds the whole audit run.
	// Default: 30 seconds.
	Timeout time.Duration

	// MinHoursRate is the minimum fraction of places with parseable
	// business hours before the audit fails. Default: 0.5.
	MinHoursRate float64

	// MinLocatableRate is the minimum fraction of places with usable
	// coordinates. Default: 0.8.
	MinLocatableRate float64

	// SkipWaits disables reporting places without wait predictions.
	SkipWaits bool
}

// DefaultAuditConfig returns the default audit configuration.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Targets:          DefaultAuditTargets(),
		RadiusKm:         5,
		Concurrency:      3,
		Timeout:          30 * time.Second,
		MinHoursRate:     0.5,
		MinLocatableRate: 0.8,
	}
}

// DefaultAuditTargets returns the five Daejeon districts.
func DefaultAuditTargets() []AuditTarget {
	return []AuditTarget{
		{
			Name:      "중구",
			Center:    geo.Coordinate{Lat: 36.3253, Lon: 127.4212},
			MinPlaces: 5,
		},
		{
			Name:      "동구",
			Center:    geo.Coordinate{Lat: 36.3120, Lon: 127.4548},
			MinPlaces: 3,
		},
		{
			Name:      "서구",
			Center:    geo.Coordinate{Lat: 36.3555, Lon: 127.3838},
			MinPlaces: 3,
		},
		{
			Name:      "유성구",
			Center:    geo.Coordinate{Lat: 36.3624, Lon: 127.3565},
			MinPlaces: 3,
		},
		{
			Name:      "대덕구",
			Center:    geo.Coordinate{Lat: 36.3467, Lon: 127.4158},
			MinPlaces: 1,
		},
	}
}

// withDefaults fills zero-valued fields with the default configuration.
func (c AuditConfig) withDefaults() AuditConfig {
	defaults := DefaultAuditConfig()
	if len(c.Targets) == 0 {
		c.Targets = defaults.Targets
	}
	if c.RadiusKm <= 0 {
		c.RadiusKm = defaults.RadiusKm
	}
	if c.Concurrency <= 0 {
		c.Concurrency = defaults.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = defaults.Timeout
	}
	if c.MinHoursRate <= 0 {
		c.MinHoursRate = defaults.MinHoursRate
	}
	if c.MinLocatableRate <= 0 {
		c.MinLocatableRate = defaults.MinLocatableRate
	}
	return c
}

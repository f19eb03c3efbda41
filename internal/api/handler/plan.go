package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tastetrail/tastetrail/internal/api/models"
	"github.com/tastetrail/tastetrail/internal/api/response"
	"github.com/tastetrail/tastetrail/internal/availability"
	"github.com/tastetrail/tastetrail/internal/geo"
	"github.com/tastetrail/tastetrail/internal/geocoding"
	"github.com/tastetrail/tastetrail/internal/planner"
	"github.com/tastetrail/tastetrail/internal/poi"
)

const dateLayout = "2006-01-02"

// PlanHandler handles the itinerary planning endpoint.
type PlanHandler struct {
	planner  *planner.Service
	repo     poi.Repository
	geocoder *geocoding.Service
	log      zerolog.Logger
}

// NewPlanHandler creates a new PlanHandler. The geocoder may be nil when
// no geocoding provider is configured; originName requests then fall back
// to planning without an origin.
func NewPlanHandler(svc *planner.Service, repo poi.Repository, geocoder *geocoding.Service, log zerolog.Logger) *PlanHandler {
	return &PlanHandler{
		planner:  svc,
		repo:     repo,
		geocoder: geocoder,
		log:      log,
	}
}

// PlanItinerary handles POST /v1/itineraries:plan.
func (h *PlanHandler) PlanItinerary(w http.ResponseWriter, r *http.Request) {
	var input models.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	constraint, fieldErrs := buildConstraint(input)
	if len(fieldErrs) > 0 {
		response.BadRequest(w, r, "invalid planning constraints", fieldErrs)
		return
	}

	if input.Origin != nil {
		if input.Origin.Lat < -90 || input.Origin.Lat > 90 || input.Origin.Lon < -180 || input.Origin.Lon > 180 {
			response.BadRequest(w, r, "origin out of range", []models.FieldError{
				{Field: "origin", Message: "lat/lon out of range", Code: "OUT_OF_RANGE"},
			})
			return
		}
	}

	candidates, err := h.candidates(r, input.POIIDs)
	if err != nil {
		h.log.Error().Err(err).Msg("loading poi dataset failed")
		response.ServiceUnavailable(w, r, "place dataset is unavailable")
		return
	}

	origin := h.resolveOrigin(r, input)

	itinerary := h.planner.Plan(r.Context(), planner.Request{
		Candidates: candidates,
		Keywords:   input.Keywords,
		Constraint: constraint,
		Mode:       geo.ParseTravelMode(normalizeMode(input.TravelMode)),
		Origin:     origin,
		TourMode:   input.TourMode,
	})

	response.JSON(w, r, http.StatusOK, toPlanResponse(itinerary))
}

// candidates loads the full dataset, narrowed to the requested IDs when
// the caller supplied any.
func (h *PlanHandler) candidates(r *http.Request, ids []string) ([]*poi.POI, error) {
	all, err := h.repo.LoadAll(r.Context())
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return all, nil
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	subset := make([]*poi.POI, 0, len(ids))
	for _, p := range all {
		if _, ok := wanted[p.ID]; ok {
			subset = append(subset, p)
		}
	}
	return subset, nil
}

// resolveOrigin picks the explicit coordinate when given, otherwise
// geocodes originName. Geocoding failures degrade to no origin rather
// than failing the request.
func (h *PlanHandler) resolveOrigin(r *http.Request, input models.PlanRequest) geo.Coordinate {
	if input.Origin != nil {
		return geo.Coordinate{Lat: input.Origin.Lat, Lon: input.Origin.Lon}
	}
	if input.OriginName == "" || h.geocoder == nil {
		return geo.Coordinate{}
	}

	coord, err := h.geocoder.Locate(r.Context(), input.OriginName)
	if err != nil {
		h.log.Warn().
			Err(err).
			Str("origin_name", input.OriginName).
			Msg("origin geocoding failed, planning without origin")
		return geo.Coordinate{}
	}
	return coord
}

// buildConstraint translates the wire-level date and time fields into an
// availability constraint, collecting field errors as it goes.
func buildConstraint(input models.PlanRequest) (availability.Constraint, []models.FieldError) {
	c := availability.Unconstrained()
	var errs []models.FieldError

	if input.DateRange != nil {
		start, err := time.Parse(dateLayout, input.DateRange.Start)
		if err != nil {
			errs = append(errs, models.FieldError{Field: "dateRange.start", Message: "must use the YYYY-MM-DD format", Code: "INVALID_FORMAT"})
		}
		end, err := time.Parse(dateLayout, input.DateRange.End)
		if err != nil {
			errs = append(errs, models.FieldError{Field: "dateRange.end", Message: "must use the YYYY-MM-DD format", Code: "INVALID_FORMAT"})
		}
		if len(errs) == 0 {
			if end.Before(start) {
				errs = append(errs, models.FieldError{Field: "dateRange.end", Message: "must not precede dateRange.start", Code: "OUT_OF_RANGE"})
			} else {
				c.HasDateRange = true
				c.StartDate = start
				c.EndDate = end
			}
		}
	}

	if input.StartTime != "" {
		tod, ok := parseClock(input.StartTime)
		if !ok {
			errs = append(errs, models.FieldError{Field: "startTime", Message: "must use the HH:MM format", Code: "INVALID_FORMAT"})
		} else {
			c.StartTime = tod
		}
	}
	if input.EndTime != "" {
		tod, ok := parseClock(input.EndTime)
		if !ok {
			errs = append(errs, models.FieldError{Field: "endTime", Message: "must use the HH:MM format", Code: "INVALID_FORMAT"})
		} else {
			c.EndTime = tod
		}
	}
	if c.StartTime.IsSet() && c.EndTime.IsSet() && c.EndTime < c.StartTime {
		errs = append(errs, models.FieldError{Field: "endTime", Message: "must not precede startTime", Code: "OUT_OF_RANGE"})
	}

	if input.UseNow {
		if c.HasDateRange {
			errs = append(errs, models.FieldError{Field: "useNow", Message: "mutually exclusive with dateRange", Code: "CONFLICT"})
		} else {
			c.UseNow = true
		}
	}

	return c, errs
}

// parseClock parses a strict HH:MM clock value.
func parseClock(s string) (poi.TimeOfDay, bool) {
	var hh, mm int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &hh, &mm); err != nil {
		return poi.TimeNone, false
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return poi.TimeNone, false
	}
	return poi.NewTimeOfDay(hh, mm), true
}

// normalizeMode maps wire enum values onto the planner's lower-case modes.
func normalizeMode(m models.TravelMode) string {
	switch m {
	case models.TravelModeWalk:
		return string(geo.ModeWalk)
	case models.TravelModeSubway:
		return string(geo.ModeSubway)
	case models.TravelModeCar:
		return string(geo.ModeCar)
	default:
		return string(geo.ModeTransit)
	}
}

func toPlanResponse(it planner.Itinerary) models.PlanResponse {
	resp := models.PlanResponse{
		Stops:       make([]models.PlanStop, 0, len(it.Stops)),
		Legs:        make([]models.PlanLeg, 0, len(it.Legs)),
		Geometry:    it.Geometry,
		EmptyReason: it.EmptyReason,
	}

	for _, stop := range it.Stops {
		s := models.PlanStop{
			ID:          stop.POI.ID,
			Name:        stop.POI.Name,
			Score:       stop.Score,
			WaitMinutes: stop.WaitMinutes,
			Station:     stop.StationName,
		}
		if stop.POI.Locatable() {
			s.Point = &models.Point{Lat: stop.POI.Coordinate.Lat, Lon: stop.POI.Coordinate.Lon}
		}
		if stop.Arrive.IsSet() {
			s.Arrive = stop.Arrive.String()
		}
		if stop.Depart.IsSet() {
			s.Depart = stop.Depart.String()
		}
		if stop.LastOrderAt.IsSet() {
			s.LastOrderAt = stop.LastOrderAt.String()
		}
		resp.Stops = append(resp.Stops, s)
	}

	for _, leg := range it.Legs {
		resp.Legs = append(resp.Legs, models.PlanLeg{
			From:            models.Point{Lat: leg.From.Lat, Lon: leg.From.Lon},
			To:              models.Point{Lat: leg.To.Lat, Lon: leg.To.Lon},
			DistanceKm:      leg.DistanceKm,
			DurationMinutes: leg.DurationMinutes,
			Mode:            toWireMode(leg.Mode),
		})
	}

	return resp
}

func toWireMode(m geo.TravelMode) models.TravelMode {
	switch m {
	case geo.ModeWalk:
		return models.TravelModeWalk
	case geo.ModeSubway:
		return models.TravelModeSubway
	case geo.ModeCar:
		return models.TravelModeCar
	default:
		return models.TravelModeTransit
	}
}

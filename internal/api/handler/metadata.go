package handler

import (
	"net/http"

	"github.com/tastetrail/tastetrail/internal/api/models"
	"github.com/tastetrail/tastetrail/internal/api/response"
	"github.com/tastetrail/tastetrail/internal/sequence"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct {
	line sequence.Line
}

// NewMetadataHandler creates a new MetadataHandler serving the given
// subway line.
func NewMetadataHandler(line sequence.Line) *MetadataHandler {
	return &MetadataHandler{line: line}
}

// ListStations handles GET /v1/metadata/stations - the supported subway
// line and its ordered stations.
func (h *MetadataHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	out := models.Line{
		Name:     h.line.Name,
		Stations: make([]models.Station, 0, len(h.line.Stations)),
	}
	for i, st := range h.line.Stations {
		out.Stations = append(out.Stations, models.Station{
			Name:  st.Name,
			Point: models.Point{Lat: st.Coordinate.Lat, Lon: st.Coordinate.Lon},
			Index: i,
		})
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	response.JSON(w, r, http.StatusOK, out)
}

// GetEnums handles GET /v1/metadata/enums - enum values used by the API.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		TravelModes: []models.TravelMode{
			models.TravelModeWalk,
			models.TravelModeSubway,
			models.TravelModeTransit,
			models.TravelModeCar,
		},
		Categories: []models.Category{
			models.CategoryBakery,
			models.CategoryRestaurant,
		},
	}
	response.JSON(w, r, http.StatusOK, enums)
}

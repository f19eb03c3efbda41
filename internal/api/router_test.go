package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastetrail/tastetrail/internal/api"
	"github.com/tastetrail/tastetrail/internal/api/models"
	"github.com/tastetrail/tastetrail/internal/geo"
	"github.com/tastetrail/tastetrail/internal/planner"
	"github.com/tastetrail/tastetrail/internal/poi"
	"github.com/tastetrail/tastetrail/internal/ranking"
	"github.com/tastetrail/tastetrail/internal/review"
	"github.com/tastetrail/tastetrail/internal/sequence"
	"github.com/tastetrail/tastetrail/internal/waittime"
)

func testDataset() []*poi.POI {
	return []*poi.POI{
		{
			ID:         "sungsimdang",
			Name:       "성심당 본점",
			Coordinate: geo.Coordinate{Lat: 36.3276, Lon: 127.4273},
			Rating:     4.6,
			ReviewKeywords: []poi.ReviewKeyword{
				{Keyword: "빵이 맛있어요", Count: 1200},
			},
		},
		{
			ID:         "hyoja-bakery",
			Name:       "효자베이커리",
			Coordinate: geo.Coordinate{Lat: 36.3321, Lon: 127.4345},
			Rating:     4.3,
			ReviewKeywords: []poi.ReviewKeyword{
				{Keyword: "빵이 맛있어요", Count: 340},
			},
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dataset := testDataset()
	stats := review.BuildIndex(dataset)
	logger := zerolog.New(io.Discard)

	svc := planner.NewService(planner.ServiceConfig{
		Ranker: ranking.NewEngine(ranking.Config{}, stats),
		Waits:  waittime.NewEstimator(waittime.EstimatorConfig{}, stats),
		Greedy: sequence.NewGreedy(sequence.GreedyConfig{}),
		Line:   sequence.NewLineSelector(sequence.LineConfig{}, sequence.DefaultLine()),
		Logger: logger,
	})

	return api.NewRouter(api.RouterConfig{
		Version:     "test",
		BuildTime:   "2025-01-01T00:00:00Z",
		Logger:      logger,
		Planner:     svc,
		Repository:  poi.NewMemoryRepository(dataset),
		Line:        sequence.DefaultLine(),
		DatasetSize: func() int { return len(dataset) },
	})
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var health models.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "test", health.Details["version"])
}

func TestRouter_Readiness(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SecurityHeaders(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestRouter_RequestIDPropagation(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouter_ListStations(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/metadata/stations", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var line models.Line
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &line))
	assert.Equal(t, "대전 도시철도 1호선", line.Name)
	require.NotEmpty(t, line.Stations)
	assert.Equal(t, 0, line.Stations[0].Index)
}

func TestRouter_GetEnums(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/metadata/enums", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var enums models.Enums
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enums))
	assert.Contains(t, enums.TravelModes, models.TravelModeSubway)
	assert.Contains(t, enums.Categories, models.CategoryBakery)
}

func TestRouter_PlanItinerary(t *testing.T) {
	router := newTestRouter(t)

	body, err := json.Marshal(models.PlanRequest{
		TravelMode: models.TravelModeTransit,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/itineraries:plan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Stops, 2)
	assert.Equal(t, "sungsimdang", resp.Stops[0].ID)
	assert.NotEmpty(t, resp.Geometry)
}

func TestRouter_PlanItinerary_InvalidBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/itineraries:plan", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestRouter_PlanItinerary_RejectsNonJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/itineraries:plan", bytes.NewReader([]byte("keywords=bread")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRouter_PlanItinerary_InvalidConstraints(t *testing.T) {
	router := newTestRouter(t)

	body, err := json.Marshal(models.PlanRequest{
		TravelMode: models.TravelModeWalk,
		StartTime:  "25:99",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/itineraries:plan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.NotEmpty(t, problem.Errors)
	assert.Equal(t, "startTime", problem.Errors[0].Field)
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/nope", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

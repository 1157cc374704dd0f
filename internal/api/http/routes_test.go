package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"weather-compare/internal/insights"
	"weather-compare/internal/weather"
)

// stubForecast serves one canned forecast for any coordinate.
type stubForecast struct {
	forecast *weather.PointForecast
	err      error
}

func (s *stubForecast) PointForecast(context.Context, weather.Coordinates) (*weather.PointForecast, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.forecast, nil
}

type stubGeocoder struct {
	coords weather.Coordinates
	err    error
}

func (s *stubGeocoder) Resolve(string) (weather.Coordinates, error) {
	return s.coords, s.err
}

func newTestApp(forecast weather.ForecastSource, geo Geocoder) *fiber.App {
	app := fiber.New()
	svc := weather.NewService(forecast, nil, nil)
	RegisterRoutes(app, svc, insights.NewEngine(insights.DefaultThresholds()), geo)
	return app
}

func sampleForecast() *weather.PointForecast {
	ts := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	return &weather.PointForecast{
		TimeSeries: []weather.ForecastTimeStep{{
			ValidTime: ts,
			Parameters: []weather.ForecastParameter{
				{Name: "t", Values: []float64{5}},
				{Name: "ws", Values: []float64{2}},
				{Name: "r", Values: []float64{80}},
				{Name: "pmean", Values: []float64{0}},
			},
		}},
	}
}

func get(t *testing.T, app *fiber.App, url string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

// TestCompareLocationValidation verifies that the compare endpoint rejects
// incomplete or malformed location parameters.
func TestCompareLocationValidation(t *testing.T) {
	app := newTestApp(&stubForecast{forecast: sampleForecast()}, nil)

	// Missing the second location's name.
	resp := get(t, app, "/api/v1/compare?name1=Stockholm&lat1=59.33&lon1=18.07&lat2=57.71&lon2=11.97")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Latitude out of range.
	resp = get(t, app, "/api/v1/compare?name1=Stockholm&lat1=95&lon1=18.07&name2=B&lat2=57.71&lon2=11.97")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Non-numeric latitude.
	resp = get(t, app, "/api/v1/compare?name1=Stockholm&lat1=north&lon1=18.07&name2=B&lat2=57.71&lon2=11.97")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Coordinates omitted with no geocoder configured.
	resp = get(t, app, "/api/v1/compare?name1=Stockholm&name2=Göteborg")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestCompareReturnsSeriesAndInsights(t *testing.T) {
	app := newTestApp(&stubForecast{forecast: sampleForecast()}, nil)

	resp := get(t, app, "/api/v1/compare?name1=Stockholm&lat1=59.33&lon1=18.07&name2=Göteborg&lat2=57.71&lon2=11.97")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Location1 weather.LocationSeries `json:"location1"`
		Location2 weather.LocationSeries `json:"location2"`
		Insights  []insights.Insight     `json:"insights"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Location1.LocationName != "Stockholm" || body.Location2.LocationName != "Göteborg" {
		t.Errorf("unexpected location names: %q, %q", body.Location1.LocationName, body.Location2.LocationName)
	}
	if len(body.Location1.Records) != 1 {
		t.Fatalf("expected 1 daily record, got %d", len(body.Location1.Records))
	}
	// Identical forecasts produce no temperature insights, but the best
	// outdoor day always resolves for non-empty series.
	if len(body.Insights) == 0 {
		t.Error("expected at least one insight")
	}
}

func TestCompareOutsideCoverage(t *testing.T) {
	app := newTestApp(&stubForecast{err: weather.ErrOutsideCoverage}, nil)

	resp := get(t, app, "/api/v1/compare?name1=Reykjavik&lat1=64.1&lon1=-21.9&name2=B&lat2=57.71&lon2=11.97")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestCompareUpstreamFailure(t *testing.T) {
	app := newTestApp(&stubForecast{err: errors.New("connection refused")}, nil)

	resp := get(t, app, "/api/v1/compare?name1=A&lat1=59.33&lon1=18.07&name2=B&lat2=57.71&lon2=11.97")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, resp.StatusCode)
	}
}

func TestCompareGeocodesWhenCoordinatesOmitted(t *testing.T) {
	geo := &stubGeocoder{coords: weather.Coordinates{Lat: 59.33, Lon: 18.07}}
	app := newTestApp(&stubForecast{forecast: sampleForecast()}, geo)

	resp := get(t, app, "/api/v1/compare?name1=Stockholm&name2=Göteborg")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestCompareGeocoderFailure(t *testing.T) {
	geo := &stubGeocoder{err: errors.New("no match")}
	app := newTestApp(&stubForecast{forecast: sampleForecast()}, geo)

	resp := get(t, app, "/api/v1/compare?name1=Nowhereville&name2=B")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

// TestHistoricalDateValidation verifies that the historical endpoint
// enforces ISO date formatting on the range parameters.
func TestHistoricalDateValidation(t *testing.T) {
	app := newTestApp(&stubForecast{forecast: sampleForecast()}, nil)
	base := "/api/v1/historical?name1=A&lat1=59.33&lon1=18.07&name2=B&lat2=57.71&lon2=11.97"

	// Missing range.
	resp := get(t, app, base)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Malformed dates.
	resp = get(t, app, base+"&startDate=10/03/2024&endDate=2024-03-31")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

// Package providers contains the HTTP adapters for the SMHI open data
// APIs: the PMP3g point forecast and the metobs historical observations.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/sony/gobreaker"

	"weather-compare/internal/weather"
)

// DefaultForecastBaseURL is the SMHI point forecast host.
const DefaultForecastBaseURL = "https://opendata-download-metfcst.smhi.se"

// SMHIForecast implements the weather.ForecastSource interface for the
// SMHI PMP3g point forecast API.
type SMHIForecast struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewSMHIForecast creates a forecast adapter. An empty baseURL selects the
// production SMHI host.
func NewSMHIForecast(client *http.Client, baseURL string) *SMHIForecast {
	if baseURL == "" {
		baseURL = DefaultForecastBaseURL
	}
	return &SMHIForecast{
		baseURL: baseURL,
		client:  client,
		circuit: newBreaker("smhi-forecast"),
	}
}

// formatCoord rounds a coordinate to the 6 decimal places the SMHI API
// requires and renders it without trailing zeros.
func formatCoord(v float64) string {
	rounded := math.Round(v*1e6) / 1e6
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// PointForecast fetches the raw point forecast for a coordinate. A 404
// from SMHI means the coordinate is outside the covered area and is
// surfaced as ErrNotFound.
func (p *SMHIForecast) PointForecast(ctx context.Context, coords weather.Coordinates) (*weather.PointForecast, error) {
	u := fmt.Sprintf("%s/api/category/pmp3g/version/2/geotype/point/lon/%s/lat/%s/data.json",
		p.baseURL, formatCoord(coords.Lon), formatCoord(coords.Lat))

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, weather.ErrOutsideCoverage
		}
		return nil, err
	}
	defer resp.Body.Close()

	var payload weather.PointForecast
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding point forecast: %w", err)
	}

	return &payload, nil
}

package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker"

	"weather-compare/internal/stations"
	"weather-compare/internal/weather"
)

// DefaultMetObsBaseURL is the SMHI meteorological observations host.
const DefaultMetObsBaseURL = "https://opendata-download-metobs.smhi.se"

// MetObs implements weather.ObsSource and stations.Source for the SMHI
// metobs API.
type MetObs struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewMetObs creates a metobs adapter. An empty baseURL selects the
// production SMHI host.
func NewMetObs(client *http.Client, baseURL string) *MetObs {
	if baseURL == "" {
		baseURL = DefaultMetObsBaseURL
	}
	return &MetObs{
		baseURL: baseURL,
		client:  client,
		circuit: newBreaker("smhi-metobs"),
	}
}

// Stations lists all stations monitoring the given parameter.
func (m *MetObs) Stations(ctx context.Context, paramID int) ([]stations.Station, error) {
	u := fmt.Sprintf("%s/api/version/1.0/parameter/%d.json", m.baseURL, paramID)

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := doRequest(ctx, m.client, m.circuit, req)
	if err != nil {
		return nil, fmt.Errorf("fetching station list for param %d: %w", paramID, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Station []stations.Station `json:"station"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding station list for param %d: %w", paramID, err)
	}

	return payload.Station, nil
}

// ArchiveCSV fetches the corrected-archive CSV body for a station and
// parameter.
func (m *MetObs) ArchiveCSV(ctx context.Context, paramID int, stationKey string) (string, error) {
	u := fmt.Sprintf("%s/api/version/1.0/parameter/%d/station/%s/period/corrected-archive/data.csv",
		m.baseURL, paramID, stationKey)

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := doRequest(ctx, m.client, m.circuit, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// LatestMonths fetches the recent-window JSON entries for a station and
// parameter.
func (m *MetObs) LatestMonths(ctx context.Context, paramID int, stationKey string) ([]weather.ObsValue, error) {
	u := fmt.Sprintf("%s/api/version/1.0/parameter/%d/station/%s/period/latest-months/data.json",
		m.baseURL, paramID, stationKey)

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := doRequest(ctx, m.client, m.circuit, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Value []weather.ObsValue `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return payload.Value, nil
}

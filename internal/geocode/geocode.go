// Package geocode resolves location names to coordinates. It sits outside
// the comparison core: the pipeline only ever sees resolved coordinates.
package geocode

import (
	"fmt"

	"github.com/kelvins/geocoder"

	"weather-compare/internal/weather"
)

// Client performs forward geocoding through the Google Geocoding API.
type Client struct{}

// New configures the geocoder with the given API key and returns a Client.
func New(apiKey string) *Client {
	geocoder.ApiKey = apiKey
	return &Client{}
}

// Resolve converts a free-form location name to coordinates.
func (c *Client) Resolve(name string) (weather.Coordinates, error) {
	location, err := geocoder.Geocoding(geocoder.Address{City: name})
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("geocoding %q: %w", name, err)
	}

	return weather.Coordinates{
		Lat: location.Latitude,
		Lon: location.Longitude,
	}, nil
}

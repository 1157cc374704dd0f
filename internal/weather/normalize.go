package weather

import (
	"context"
	"time"
)

// SMHI PMP3g parameter short codes.
// t = temperature (°C), ws = wind speed (m/s), r = relative humidity (%),
// pmean = mean precipitation rate (mm/h), wd = wind direction (degrees).
const (
	paramTemperature   = "t"
	paramWindSpeed     = "ws"
	paramHumidity      = "r"
	paramPrecipitation = "pmean"
	paramWindDirection = "wd"
)

// PointForecast is the raw point-forecast payload: a list of timestamped
// entries, each carrying named parameters with single-element value arrays.
type PointForecast struct {
	ApprovedTime  time.Time          `json:"approvedTime"`
	ReferenceTime time.Time          `json:"referenceTime"`
	TimeSeries    []ForecastTimeStep `json:"timeSeries"`
}

// ForecastTimeStep is one timestamped parameter bundle.
type ForecastTimeStep struct {
	ValidTime  time.Time           `json:"validTime"`
	Parameters []ForecastParameter `json:"parameters"`
}

// ForecastParameter is a named value within a time step. The provider
// always returns a singleton Values array; only the first element is used.
type ForecastParameter struct {
	Name   string    `json:"name"`
	Unit   string    `json:"unit"`
	Values []float64 `json:"values"`
}

// ForecastSource fetches the raw point forecast for a coordinate.
type ForecastSource interface {
	PointForecast(ctx context.Context, coords Coordinates) (*PointForecast, error)
}

// paramValue looks up a named parameter in a time step and returns its
// first value, or false if the parameter is absent or empty.
func paramValue(step ForecastTimeStep, name string) (float64, bool) {
	for _, p := range step.Parameters {
		if p.Name == name && len(p.Values) > 0 {
			return p.Values[0], true
		}
	}
	return 0, false
}

// Normalize converts a raw point forecast into sub-daily weather records,
// in input order. A time step missing any of the four core parameters is
// dropped without error; that is expected at the edges of forecast range.
func Normalize(forecast *PointForecast) []Record {
	records := make([]Record, 0, len(forecast.TimeSeries))

	for _, step := range forecast.TimeSeries {
		temp, okTemp := paramValue(step, paramTemperature)
		wind, okWind := paramValue(step, paramWindSpeed)
		humidity, okHumidity := paramValue(step, paramHumidity)
		precip, okPrecip := paramValue(step, paramPrecipitation)
		if !okTemp || !okWind || !okHumidity || !okPrecip {
			continue
		}

		rec := Record{
			Date:          step.ValidTime,
			Temperature:   temp,
			WindSpeed:     wind,
			Humidity:      humidity,
			Precipitation: precip,
		}
		if dir, ok := paramValue(step, paramWindDirection); ok {
			rec.WindDirection = &dir
		}

		records = append(records, rec)
	}

	return records
}

package weather

import "time"

// Coordinates identifies a point on the globe in floating point degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Record is the normalized weather view for one location at one point in
// time. Before daily aggregation the Date carries a time-of-day component;
// after aggregation it is midnight UTC of the calendar day.
//
// Forecast records always carry all four core fields: a record is only
// emitted when temperature, wind, humidity and precipitation were all
// present in the source payload. Historical records zero-fill wind and
// humidity when the nearest station had no data for that date; consumers
// must not treat a historical zero as a measured calm/dry reading.
type Record struct {
	Date          time.Time `json:"date"`
	Temperature   float64   `json:"temperature"`   // °C
	WindSpeed     float64   `json:"windSpeed"`     // m/s
	Humidity      float64   `json:"humidity"`      // %
	Precipitation float64   `json:"precipitation"` // mm (rate mm/h pre-aggregation)

	// WindDirection is degrees [0,360), only present on sub-daily forecast
	// records when the source reported it. Not aggregated into daily records.
	WindDirection *float64 `json:"windDirection,omitempty"`
}

// DateKey returns the UTC calendar date of the record as YYYY-MM-DD.
func (r Record) DateKey() string {
	return r.Date.UTC().Format("2006-01-02")
}

// LocationSeries is an ordered daily weather series for one named location.
// Records are ascending by date with unique dates. Built fresh per
// comparison and never mutated afterwards.
type LocationSeries struct {
	LocationName string      `json:"locationName"`
	Coordinates  Coordinates `json:"coordinates"`
	Records      []Record    `json:"weatherData"`
}

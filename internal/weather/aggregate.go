package weather

import (
	"math"
	"sort"
	"time"
)

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// AggregateDaily collapses sub-daily records into one record per UTC
// calendar day. Temperature, wind speed and humidity are averaged
// (temperature and wind to 1 decimal, humidity to the nearest integer);
// precipitation is summed (1 decimal) because the source reports a rate
// sampled sub-daily, so the sum approximates daily accumulation.
//
// A day with a single sample is still emitted. Days with no samples are
// never fabricated. Output is sorted ascending by date.
func AggregateDaily(records []Record) []Record {
	groups := make(map[string][]Record)
	for _, rec := range records {
		key := rec.DateKey()
		groups[key] = append(groups[key], rec)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	daily := make([]Record, 0, len(keys))
	for _, key := range keys {
		group := groups[key]

		var sumTemp, sumWind, sumHumidity, sumPrecip float64
		for _, rec := range group {
			sumTemp += rec.Temperature
			sumWind += rec.WindSpeed
			sumHumidity += rec.Humidity
			sumPrecip += rec.Precipitation
		}

		n := float64(len(group))
		date, err := time.ParseInLocation("2006-01-02", key, time.UTC)
		if err != nil {
			continue
		}

		daily = append(daily, Record{
			Date:          date,
			Temperature:   round1(sumTemp / n),
			WindSpeed:     round1(sumWind / n),
			Humidity:      math.Round(sumHumidity / n),
			Precipitation: round1(sumPrecip),
		})
	}

	return daily
}

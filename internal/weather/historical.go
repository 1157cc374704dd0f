package weather

import (
	"context"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SMHI metobs parameter ids.
// 2 and 5 are reported once per day and have archives small enough for the
// corrected-archive CSV download. 4 and 6 are hourly; their archives run to
// tens of megabytes, so only the latest-months JSON window (~4 months) is
// used. A consequence: a requested range that predates the latest-months
// window yields no wind or humidity even when temperature and precipitation
// are available from the archive.
const (
	ParamDailyTemperature   = 2
	ParamHourlyWindSpeed    = 4
	ParamDailyPrecipitation = 5
	ParamHourlyHumidity     = 6
)

// MetObsParams lists every parameter the historical path depends on.
var MetObsParams = []int{
	ParamDailyTemperature,
	ParamHourlyWindSpeed,
	ParamDailyPrecipitation,
	ParamHourlyHumidity,
}

// archiveHeaderMarker terminates the variable-length preamble of a
// corrected-archive CSV for daily parameters.
const archiveHeaderMarker = "Från Datum Tid"

// ObsValue is one entry of the latest-months JSON format.
type ObsValue struct {
	From    int64  `json:"from"` // interval start, unix milliseconds
	To      int64  `json:"to"`
	Ref     string `json:"ref"`
	Value   string `json:"value"`
	Quality string `json:"quality"`
}

// ObsSource fetches station data from the historical observations provider
// in its two formats.
type ObsSource interface {
	// ArchiveCSV returns the corrected-archive CSV body for a station and
	// parameter: semicolon-delimited rows after a free-form preamble.
	ArchiveCSV(ctx context.Context, paramID int, stationKey string) (string, error)
	// LatestMonths returns the recent-window entries (roughly the last
	// four months) for a station and parameter.
	LatestMonths(ctx context.Context, paramID int, stationKey string) ([]ObsValue, error)
}

// parseArchiveCSV extracts per-day values from a corrected-archive CSV,
// restricted to [startDate, endDate] (inclusive, YYYY-MM-DD). Rows before
// the header marker line are preamble and skipped. Column 2 is the
// representative day, column 3 the value. The last row seen for a date
// wins.
func parseArchiveCSV(csv, startDate, endDate string) map[string]float64 {
	result := make(map[string]float64)

	dataStarted := false
	for _, line := range strings.Split(csv, "\n") {
		if !dataStarted {
			if strings.HasPrefix(line, archiveHeaderMarker) {
				dataStarted = true
			}
			continue
		}

		parts := strings.Split(line, ";")
		if len(parts) < 5 {
			continue
		}

		dateStr := strings.TrimSpace(parts[2])
		valueStr := strings.TrimSpace(parts[3])
		if dateStr == "" || valueStr == "" {
			continue
		}
		if dateStr < startDate || dateStr > endDate {
			continue
		}

		if num, err := strconv.ParseFloat(valueStr, 64); err == nil {
			result[dateStr] = round1(num)
		}
	}

	return result
}

// latestMonthsDaily maps latest-months entries of a daily parameter to
// per-day values. The ref string is the date key directly.
func latestMonthsDaily(values []ObsValue, startDate, endDate string) map[string]float64 {
	result := make(map[string]float64)

	for _, v := range values {
		if v.Ref == "" || v.Ref < startDate || v.Ref > endDate {
			continue
		}
		if num, err := strconv.ParseFloat(v.Value, 64); err == nil {
			result[v.Ref] = round1(num)
		}
	}

	return result
}

// latestMonthsHourly maps latest-months entries of an hourly parameter to
// per-day averages. The date is the first 10 characters of the ref string,
// or the UTC date of the interval start when no ref is present.
func latestMonthsHourly(values []ObsValue, startDate, endDate string) map[string]float64 {
	perDay := make(map[string][]float64)

	for _, v := range values {
		dateStr := v.Ref
		if len(dateStr) >= 10 {
			dateStr = dateStr[:10]
		} else if dateStr == "" {
			dateStr = time.UnixMilli(v.From).UTC().Format("2006-01-02")
		}
		if dateStr < startDate || dateStr > endDate {
			continue
		}
		if num, err := strconv.ParseFloat(v.Value, 64); err == nil {
			perDay[dateStr] = append(perDay[dateStr], num)
		}
	}

	result := make(map[string]float64, len(perDay))
	for date, nums := range perDay {
		var sum float64
		for _, n := range nums {
			sum += n
		}
		result[date] = round1(sum / float64(len(nums)))
	}

	return result
}

// fetchDailyParam retrieves per-day values for an archive-capable
// parameter: corrected-archive CSV first, latest-months JSON when the
// archive yields nothing (format unavailable, station too new, or fetch
// failure).
func (s *Service) fetchDailyParam(ctx context.Context, paramID int, stationKey, startDate, endDate string) map[string]float64 {
	csv, err := s.obs.ArchiveCSV(ctx, paramID, stationKey)
	if err == nil {
		if result := parseArchiveCSV(csv, startDate, endDate); len(result) > 0 {
			return result
		}
	}

	values, err := s.obs.LatestMonths(ctx, paramID, stationKey)
	if err != nil {
		return map[string]float64{}
	}
	return latestMonthsDaily(values, startDate, endDate)
}

// fetchHourlyParam retrieves per-day averages for an hourly parameter from
// the latest-months window only.
func (s *Service) fetchHourlyParam(ctx context.Context, paramID int, stationKey, startDate, endDate string) map[string]float64 {
	values, err := s.obs.LatestMonths(ctx, paramID, stationKey)
	if err != nil {
		return map[string]float64{}
	}
	return latestMonthsHourly(values, startDate, endDate)
}

// fetchHistoricalParam resolves the nearest station for one parameter and
// retrieves its per-day values. Every failure mode degrades to an empty
// map: a missing parameter must never fail the whole historical fetch.
func (s *Service) fetchHistoricalParam(ctx context.Context, paramID int, coords Coordinates, startDate, endDate string) map[string]float64 {
	station, err := s.resolver.Nearest(ctx, paramID, coords.Lat, coords.Lon)
	if err != nil {
		log.Printf("station resolution failed for param %d: %v", paramID, err)
		return map[string]float64{}
	}
	if station == nil {
		return map[string]float64{}
	}

	switch paramID {
	case ParamDailyTemperature, ParamDailyPrecipitation:
		return s.fetchDailyParam(ctx, paramID, station.Key, startDate, endDate)
	default:
		return s.fetchHourlyParam(ctx, paramID, station.Key, startDate, endDate)
	}
}

// FetchHistoricalRange produces daily records for one coordinate over
// [startDate, endDate] (inclusive, YYYY-MM-DD). The four parameters are
// fetched concurrently; each resolves its own station from that
// parameter's network.
//
// Temperature anchors the merge: the output covers the union of dates in
// the temperature and precipitation maps, minus dates without a
// temperature entry. Wind and humidity default to literal 0 when their
// station had no data for a date, matching the forecast record shape so
// downstream code never special-cases historical origin.
func (s *Service) FetchHistoricalRange(ctx context.Context, coords Coordinates, startDate, endDate string) ([]Record, error) {
	var (
		wg                                    sync.WaitGroup
		tempMap, windMap, precipMap, humidMap map[string]float64
	)

	fetch := func(paramID int, dst *map[string]float64) {
		defer wg.Done()
		*dst = s.fetchHistoricalParam(ctx, paramID, coords, startDate, endDate)
	}

	wg.Add(4)
	go fetch(ParamDailyTemperature, &tempMap)
	go fetch(ParamHourlyWindSpeed, &windMap)
	go fetch(ParamDailyPrecipitation, &precipMap)
	go fetch(ParamHourlyHumidity, &humidMap)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dateSet := make(map[string]struct{}, len(tempMap)+len(precipMap))
	for date := range tempMap {
		dateSet[date] = struct{}{}
	}
	for date := range precipMap {
		dateSet[date] = struct{}{}
	}

	dates := make([]string, 0, len(dateSet))
	for date := range dateSet {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	records := make([]Record, 0, len(dates))
	for _, date := range dates {
		temp, ok := tempMap[date]
		if !ok {
			continue
		}

		day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
		if err != nil {
			continue
		}

		records = append(records, Record{
			Date:          day,
			Temperature:   temp,
			WindSpeed:     windMap[date],
			Humidity:      humidMap[date],
			Precipitation: precipMap[date],
		})
	}

	return records, nil
}

// Package weather implements the comparison pipeline: forecast
// normalization, daily aggregation, historical observation retrieval, and
// the two-location orchestration both paths feed into.
package weather

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"weather-compare/internal/stations"
)

// ErrOutsideCoverage is returned when a coordinate falls outside the
// forecast provider's covered area.
var ErrOutsideCoverage = errors.New("location outside forecast coverage area")

// LocationInput names a location with already-resolved coordinates.
type LocationInput struct {
	Name   string
	Coords Coordinates
}

// Service orchestrates the forecast and historical paths for two
// locations.
type Service struct {
	forecast ForecastSource
	obs      ObsSource
	resolver *stations.Resolver
}

// NewService creates a new Service.
func NewService(forecast ForecastSource, obs ObsSource, resolver *stations.Resolver) *Service {
	return &Service{
		forecast: forecast,
		obs:      obs,
		resolver: resolver,
	}
}

// fetchDailySeries fetches, normalizes and aggregates the forecast for one
// location.
func (s *Service) fetchDailySeries(ctx context.Context, loc LocationInput) (LocationSeries, error) {
	raw, err := s.forecast.PointForecast(ctx, loc.Coords)
	if err != nil {
		return LocationSeries{}, err
	}

	return LocationSeries{
		LocationName: loc.Name,
		Coordinates:  loc.Coords,
		Records:      AggregateDaily(Normalize(raw)),
	}, nil
}

// Compare fetches and aggregates forecast data for both locations in
// parallel. A forecast failure for either location aborts the whole
// comparison.
func (s *Service) Compare(ctx context.Context, locA, locB LocationInput) (LocationSeries, LocationSeries, error) {
	var seriesA, seriesB LocationSeries

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		seriesA, err = s.fetchDailySeries(gCtx, locA)
		return err
	})
	g.Go(func() error {
		var err error
		seriesB, err = s.fetchDailySeries(gCtx, locB)
		return err
	})

	if err := g.Wait(); err != nil {
		return LocationSeries{}, LocationSeries{}, err
	}

	return seriesA, seriesB, nil
}

// HistoricalRangeFor derives the historical date range from an
// already-fetched forecast series: its min and max dates shifted back
// exactly one calendar year. Returns false when the series is empty.
func HistoricalRangeFor(reference LocationSeries) (startDate, endDate string, ok bool) {
	if len(reference.Records) == 0 {
		return "", "", false
	}

	minDate := reference.Records[0].Date
	maxDate := reference.Records[0].Date
	for _, rec := range reference.Records[1:] {
		if rec.Date.Before(minDate) {
			minDate = rec.Date
		}
		if rec.Date.After(maxDate) {
			maxDate = rec.Date
		}
	}

	startDate = minDate.AddDate(-1, 0, 0).UTC().Format("2006-01-02")
	endDate = maxDate.AddDate(-1, 0, 0).UTC().Format("2006-01-02")
	return startDate, endDate, true
}

// FetchHistorical fetches last year's observations for both locations in
// parallel, over the range derived from the reference forecast series.
// Historical data is strictly additive overlay data: a failed location
// yields a nil series and never an error, so an existing forecast
// comparison stays fully usable.
func (s *Service) FetchHistorical(ctx context.Context, locA, locB LocationInput, reference LocationSeries) (*LocationSeries, *LocationSeries) {
	startDate, endDate, ok := HistoricalRangeFor(reference)
	if !ok {
		return nil, nil
	}
	return s.FetchHistoricalPair(ctx, locA, locB, startDate, endDate)
}

// FetchHistoricalPair fetches historical series for both locations over an
// explicit [startDate, endDate] range.
func (s *Service) FetchHistoricalPair(ctx context.Context, locA, locB LocationInput, startDate, endDate string) (*LocationSeries, *LocationSeries) {
	var (
		wg    sync.WaitGroup
		histA *LocationSeries
		histB *LocationSeries
	)

	fetch := func(loc LocationInput, dst **LocationSeries) {
		defer wg.Done()

		records, err := s.FetchHistoricalRange(ctx, loc.Coords, startDate, endDate)
		if err != nil {
			log.Printf("historical fetch failed for %s: %v", loc.Name, err)
			return
		}
		*dst = &LocationSeries{
			LocationName: loc.Name,
			Coordinates:  loc.Coords,
			Records:      records,
		}
	}

	wg.Add(2)
	go fetch(locA, &histA)
	go fetch(locB, &histB)
	wg.Wait()

	return histA, histB
}

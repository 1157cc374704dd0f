package httpapi

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weather-compare/internal/insights"
	"weather-compare/internal/weather"
)

var validate = validator.New()

// Geocoder resolves a location name to coordinates. Nil when geocoding is
// not configured, in which case explicit coordinates are required.
type Geocoder interface {
	Resolve(name string) (weather.Coordinates, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, engine *insights.Engine, geo Geocoder) {
	v1 := app.Group("/api/v1")

	v1.Get("/compare", func(c *fiber.Ctx) error {
		locA, err := bindLocation(c, "1", geo)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		locB, err := bindLocation(c, "2", geo)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		seriesA, seriesB, err := service.Compare(c.Context(), locA, locB)
		if err != nil {
			if errors.Is(err, weather.ErrOutsideCoverage) {
				return fiber.NewError(fiber.StatusNotFound, "location not found or outside SMHI coverage area")
			}
			return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
		}

		return c.JSON(fiber.Map{
			"location1": seriesA,
			"location2": seriesB,
			"insights":  engine.Generate(seriesA, seriesB),
		})
	})

	v1.Get("/historical", func(c *fiber.Ctx) error {
		locA, err := bindLocation(c, "1", geo)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		locB, err := bindLocation(c, "2", geo)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var rng dateRangeQuery
		rng.StartDate = c.Query("startDate")
		rng.EndDate = c.Query("endDate")
		if err := validate.Struct(rng); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "startDate and endDate must be in YYYY-MM-DD format")
		}

		// Per-location failures degrade to null; historical data is
		// overlay data and never produces an error status.
		histA, histB := service.FetchHistoricalPair(c.Context(), locA, locB, rng.StartDate, rng.EndDate)

		return c.JSON(fiber.Map{
			"location1": histA,
			"location2": histB,
			"startDate": rng.StartDate,
			"endDate":   rng.EndDate,
		})
	})
}

// locationQuery holds one location's query parameters.
type locationQuery struct {
	Name string   `validate:"required"`
	Lat  *float64 `validate:"omitempty,gte=-90,lte=90"`
	Lon  *float64 `validate:"omitempty,gte=-180,lte=180"`
}

// dateRangeQuery holds the historical range parameters.
type dateRangeQuery struct {
	StartDate string `validate:"required,datetime=2006-01-02"`
	EndDate   string `validate:"required,datetime=2006-01-02"`
}

// bindLocation parses and validates the name/lat/lon triple for the given
// suffix ("1" or "2"), geocoding the name when coordinates are omitted.
func bindLocation(c *fiber.Ctx, suffix string, geo Geocoder) (weather.LocationInput, error) {
	var q locationQuery
	q.Name = c.Query("name" + suffix)

	if latStr := c.Query("lat" + suffix); latStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return weather.LocationInput{}, fmt.Errorf("invalid lat%s", suffix)
		}
		q.Lat = &lat
	}
	if lonStr := c.Query("lon" + suffix); lonStr != "" {
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return weather.LocationInput{}, fmt.Errorf("invalid lon%s", suffix)
		}
		q.Lon = &lon
	}

	if err := validate.Struct(q); err != nil {
		return weather.LocationInput{}, err
	}

	if q.Lat != nil && q.Lon != nil {
		return weather.LocationInput{
			Name:   q.Name,
			Coords: weather.Coordinates{Lat: *q.Lat, Lon: *q.Lon},
		}, nil
	}

	if geo == nil {
		return weather.LocationInput{}, fmt.Errorf("lat%s and lon%s are required when geocoding is not configured", suffix, suffix)
	}

	coords, err := geo.Resolve(q.Name)
	if err != nil {
		return weather.LocationInput{}, fmt.Errorf("could not geocode %q", q.Name)
	}

	return weather.LocationInput{Name: q.Name, Coords: coords}, nil
}

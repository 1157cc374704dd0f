package stations

import (
	"context"
	"math"
)

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371

// Haversine returns the great-circle distance in kilometers between two
// points given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Resolver finds the nearest active station for a parameter.
type Resolver struct {
	cache Cache
}

// NewResolver creates a Resolver backed by the given cache.
func NewResolver(cache Cache) *Resolver {
	return &Resolver{cache: cache}
}

// Nearest returns the active station closest to the target coordinate for
// the given parameter, or nil when the network has no active stations.
// Callers must treat a nil station as "no data available for this
// parameter", not as an error.
func (r *Resolver) Nearest(ctx context.Context, paramID int, lat, lon float64) (*Station, error) {
	list, err := r.cache.GetOrPopulate(ctx, paramID)
	if err != nil {
		return nil, err
	}

	var nearest *Station
	minDist := math.Inf(1)

	for i := range list {
		if !list[i].Active {
			continue
		}
		dist := Haversine(lat, lon, list[i].Latitude, list[i].Longitude)
		if dist < minDist {
			minDist = dist
			nearest = &list[i]
		}
	}

	return nearest, nil
}

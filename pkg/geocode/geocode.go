// Package geocode resolves submission coordinates to Philippine
// administrative divisions (region/province/municipality/barangay) through
// the Google reverse-geocoding service, with an optional Redis cache in
// front of it.
package geocode

import (
	"context"
	"log/slog"
	"time"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"

	"github.com/spf13/viper"
	"googlemaps.github.io/maps"
)

// Resolver maps a coordinate pair to an administrative-location snapshot.
// Implementations return apperr.NotFound when the service yields nothing at
// all; tiers missing from an otherwise usable response stay nil instead.
type Resolver interface {
	Resolve(ctx context.Context, lat, lon float64) (*models.Location, error)
}

// ValidateCoordinates rejects out-of-range coordinates before any external
// call is made.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return apperr.Validation("lat", "must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return apperr.Validation("lon", "must be between -180 and 180")
	}
	return nil
}

type reverseGeocoder interface {
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

type GoogleResolver struct {
	client  reverseGeocoder
	timeout time.Duration
}

func NewGoogleResolver() (*GoogleResolver, error) {
	client, err := maps.NewClient(maps.WithAPIKey(viper.GetString("geocode.api_key")))
	if err != nil {
		return nil, err
	}

	timeout := viper.GetDuration("geocode.timeout")
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &GoogleResolver{client: client, timeout: timeout}, nil
}

func (g *GoogleResolver) Resolve(ctx context.Context, lat, lon float64) (*models.Location, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:     &maps.LatLng{Lat: lat, Lng: lon},
		ResultType: []string{"political"},
	})
	if err != nil {
		slog.Warn("Reverse geocode lookup failed", "lat", lat, "lon", lon, "error", err)
		return nil, apperr.NotFound("no location found")
	}
	if len(results) == 0 {
		return nil, apperr.NotFound("no location found")
	}

	return locationFromResults(lat, lon, results), nil
}

// locationFromResults picks the administrative tiers out of the political
// geocoding results. Each tier comes from the first component of the result
// typed for it; tiers absent from the response stay nil.
func locationFromResults(lat, lon float64, results []maps.GeocodingResult) *models.Location {
	loc := &models.Location{Lat: lat, Lon: lon}

	for _, res := range results {
		if len(res.AddressComponents) == 0 {
			continue
		}
		name := res.AddressComponents[0].LongName

		for _, t := range res.Types {
			switch t {
			case "administrative_area_level_1":
				setTier(&loc.Region, name)
			case "administrative_area_level_2":
				setTier(&loc.Province, name)
			case "administrative_area_level_3":
				setTier(&loc.Municipality, name)
			case "neighborhood", "administrative_area_level_5":
				setTier(&loc.Barangay, name)
			}
		}
	}

	return loc
}

func setTier(tier **string, name string) {
	if name == "" || *tier != nil {
		return
	}
	*tier = &name
}

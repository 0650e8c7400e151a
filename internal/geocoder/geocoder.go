// Package geocoder resolves free-form addresses and postal codes to points.
package geocoder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/mapquest/open"
	"github.com/codingsince1985/geo-golang/openstreetmap"

	"github.com/devcamper/devcamper/backend/go-services/pkg/metrics"
)

// ErrNoMatch is returned when the provider has no result for an address.
var ErrNoMatch = errors.New("no geocoding match")

// Result is a resolved point with its structured address.
type Result struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
	Street           string
	City             string
	State            string
	Zipcode          string
	Country          string
}

// Geocoder is the minimal interface the services depend on.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Func adapts a plain function to Geocoder.
type Func func(ctx context.Context, address string) (*Result, error)

func (f Func) Geocode(ctx context.Context, address string) (*Result, error) { return f(ctx, address) }

// Provider wraps a geo-golang geocoder.
type Provider struct {
	name string
	g    geo.Geocoder
}

// New returns the geocoder for provider ("mapquest", "openstreetmap").
// "none" or "" disables geocoding and returns (nil, nil).
func New(provider, apiKey string) (*Provider, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "none":
		return nil, nil
	case "mapquest":
		if apiKey == "" {
			return nil, fmt.Errorf("mapquest geocoder requires an API key")
		}
		return &Provider{name: "mapquest", g: open.Geocoder(apiKey)}, nil
	case "openstreetmap", "osm":
		return &Provider{name: "openstreetmap", g: openstreetmap.Geocoder()}, nil
	}
	return nil, fmt.Errorf("unknown geocoder provider %q", provider)
}

func (p *Provider) Name() string { return p.name }

// Geocode resolves address. The structured address parts come from a reverse
// lookup of the resolved point; a failed reverse lookup leaves them empty.
func (p *Provider) Geocode(ctx context.Context, address string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loc, err := p.g.Geocode(address)
	if err != nil {
		metrics.GeocodeLookups.WithLabelValues(p.name, "error").Inc()
		return nil, fmt.Errorf("geocode %q: %w", address, err)
	}
	if loc == nil {
		metrics.GeocodeLookups.WithLabelValues(p.name, "miss").Inc()
		return nil, ErrNoMatch
	}
	metrics.GeocodeLookups.WithLabelValues(p.name, "hit").Inc()

	res := &Result{Lat: loc.Lat, Lng: loc.Lng, FormattedAddress: address}
	if addr, err := p.g.ReverseGeocode(loc.Lat, loc.Lng); err == nil && addr != nil {
		street := strings.TrimSpace(addr.HouseNumber + " " + addr.Street)
		res.FormattedAddress = addr.FormattedAddress
		res.Street = street
		res.City = addr.City
		res.State = addr.StateCode
		if res.State == "" {
			res.State = addr.State
		}
		res.Zipcode = addr.Postcode
		res.Country = addr.CountryCode
	}
	return res, nil
}

package model

import (
	"fmt"
	"math"

	"github.com/wippyai/payload/encoder"
	"github.com/wippyai/payload/errors"
	"github.com/wippyai/payload/value"
)

// GeoPoint is a latitude/longitude pair in degrees.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

var _ encoder.Special = GeoPoint{}

// NewGeoPoint validates the coordinate ranges.
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	if math.IsNaN(latitude) || math.IsNaN(longitude) {
		return GeoPoint{}, errors.InvalidUse(errors.PhaseEncode, nil, "model.GeoPoint", "coordinates must be numbers")
	}
	if latitude < -90 || latitude > 90 {
		return GeoPoint{}, errors.InvalidUse(errors.PhaseEncode, nil, "model.GeoPoint",
			fmt.Sprintf("latitude %v out of range [-90, 90]", latitude))
	}
	if longitude < -180 || longitude > 180 {
		return GeoPoint{}, errors.InvalidUse(errors.PhaseEncode, nil, "model.GeoPoint",
			fmt.Sprintf("longitude %v out of range [-180, 180]", longitude))
	}
	return GeoPoint{Latitude: latitude, Longitude: longitude}, nil
}

func (GeoPoint) SpecialKind() encoder.SpecialKind { return encoder.SpecialGeoPoint }

func (g GeoPoint) ToJSON() (value.Value, error) {
	return value.ObjectOf(
		"__type", value.String("GeoPoint"),
		"latitude", value.Number(g.Latitude),
		"longitude", value.Number(g.Longitude),
	), nil
}

// Polygon is a closed shape of at least three points.
type Polygon struct {
	Points []GeoPoint
}

var _ encoder.Special = (*Polygon)(nil)

func NewPolygon(points []GeoPoint) (*Polygon, error) {
	if len(points) < 3 {
		return nil, errors.InvalidUse(errors.PhaseEncode, nil, "*model.Polygon",
			fmt.Sprintf("polygon needs at least 3 points, got %d", len(points)))
	}
	return &Polygon{Points: points}, nil
}

func (*Polygon) SpecialKind() encoder.SpecialKind { return encoder.SpecialPolygon }

// ToJSON returns {"__type":"Polygon","coordinates":[[lat,lng],...]}.
func (p *Polygon) ToJSON() (value.Value, error) {
	coords := make(value.Array, len(p.Points))
	for i, pt := range p.Points {
		coords[i] = value.Array{value.Number(pt.Latitude), value.Number(pt.Longitude)}
	}
	return value.ObjectOf("__type", value.String("Polygon"), "coordinates", coords), nil
}

package roads

import (
	"fmt"
	"math"
)

const metersPerDegree = 111320.0

// Origin anchors the meter-based world to a geographic point. World +X is
// east, +Y is north.
type Origin struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ToLatLon converts world coordinates (meters from the origin) to
// geographic coordinates. Errors on non-finite input rather than sending
// garbage to the feature service.
func (o Origin) ToLatLon(x, y float64) (float64, float64, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, 0, fmt.Errorf("non-finite world position (%v, %v)", x, y)
	}

	lat := o.Lat + y/metersPerDegree
	lon := o.Lon + x/(metersPerDegree*math.Cos(o.Lat*math.Pi/180))
	return lat, lon, nil
}

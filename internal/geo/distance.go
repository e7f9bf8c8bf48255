// Package geo computes great-circle distances along a glider's lon/lat
// surface track.
package geo

import (
	"fmt"
	"math"

	"github.com/pelagic-data/dive.report/internal/glider"
)

// earthRadiusM is the mean Earth radius used by the haversine formula.
const earthRadiusM = 6371e3

// Distances returns the haversine distance in meters between each pair of
// adjacent track points, with a leading zero so the result aligns with the
// input ("distance traveled since start" semantics). Inputs are in degrees.
func Distances(lon, lat []float64) ([]float64, error) {
	if err := checkTrack(lon, lat); err != nil {
		return nil, err
	}

	out := make([]float64, 0, len(lon))
	out = append(out, 0)
	for i := 1; i < len(lon); i++ {
		out = append(out, haversine(lon[i-1], lat[i-1], lon[i], lat[i]))
	}
	return out, nil
}

// DistancesFrom returns the haversine distance in meters from every track
// point to the reference point at refIdx. A negative refIdx counts from the
// end of the track. The leading zero is prepended here too, even though the
// reference point's own (zero) distance appears later in the result; the
// output is therefore one element longer than the input. Downstream code
// relies on that forced zero, so it is kept as-is.
func DistancesFrom(lon, lat []float64, refIdx int) ([]float64, error) {
	if err := checkTrack(lon, lat); err != nil {
		return nil, err
	}
	if refIdx < 0 {
		refIdx += len(lon)
	}
	if refIdx < 0 || refIdx >= len(lon) {
		return nil, fmt.Errorf("reference index %d out of range for track of %d points", refIdx, len(lon))
	}

	out := make([]float64, 0, len(lon)+1)
	out = append(out, 0)
	for i := range lon {
		out = append(out, haversine(lon[refIdx], lat[refIdx], lon[i], lat[i]))
	}
	return out, nil
}

func checkTrack(lon, lat []float64) error {
	if len(lon) != len(lat) {
		return &glider.ShapeError{What: "lon, lat", Len1: len(lon), Len2: len(lat)}
	}
	return nil
}

func haversine(lon1, lat1, lon2, lat2 float64) float64 {
	rlon1 := lon1 * math.Pi / 180
	rlat1 := lat1 * math.Pi / 180
	rlon2 := lon2 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180

	sinLat := math.Sin((rlat2 - rlat1) / 2)
	sinLon := math.Sin((rlon2 - rlon1) / 2)

	a := sinLat*sinLat + sinLon*sinLon*math.Cos(rlat1)*math.Cos(rlat2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

package dispatch

import (
	"math"
	"sort"

	"github.com/ssm-mz/dispatch-api/models"
)

const (
	// KmPerDegree is the planar approximation used at Maputo's latitude
	KmPerDegree = 111.0
	// MinutesPerKm converts a straight-line distance into an ETA
	MinutesPerKm = 2.5
)

// DistanceKm is the planar distance between two points. Road networks and great-circle
// correction are ignored; the figure is only good at city scale. It is snapped to the
// millimetre so half-minute ETAs round the same way regardless of float noise.
func DistanceKm(a, b models.Coordinates) float64 {
	km := math.Hypot(a.Lat-b.Lat, a.Lng-b.Lng) * KmPerDegree
	return math.Round(km*1e6) / 1e6
}

// ETA returns the estimated minutes to cover km
func ETA(km float64) int {
	return int(math.Round(km * MinutesPerKm))
}

// RankUnits annotates each unit with its distance and ETA to target and sorts them
// nearest first
func RankUnits(units []models.Ambulance, target models.Coordinates) []models.RankedUnit {
	ranked := make([]models.RankedUnit, 0, len(units))
	for _, u := range units {
		km := DistanceKm(u.Position, target)
		ranked = append(ranked, models.RankedUnit{Ambulance: u, DistanceKm: km, ETA: ETA(km)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].DistanceKm < ranked[j].DistanceKm })
	return ranked
}

// RankHospitals sorts the hospitals that have a known position nearest first
func RankHospitals(resources []models.Resource, target models.Coordinates) []models.RankedResource {
	var ranked []models.RankedResource
	for _, r := range resources {
		if r.Category != models.CategoryHospital || r.Coords == nil {
			continue
		}
		ranked = append(ranked, models.RankedResource{Resource: r, DistanceKm: DistanceKm(*r.Coords, target)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].DistanceKm < ranked[j].DistanceKm })
	return ranked
}

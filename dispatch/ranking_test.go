package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssm-mz/dispatch-api/models"
)

func TestRankUnits(t *testing.T) {
	incident := models.Coordinates{Lat: -25.97, Lng: 32.57}
	units := []models.Ambulance{
		{ID: "FAR", Position: models.Coordinates{Lat: incident.Lat + 3.0/KmPerDegree, Lng: incident.Lng}},
		{ID: "NEAR", Position: models.Coordinates{Lat: incident.Lat, Lng: incident.Lng + 1.0/KmPerDegree}},
	}

	ranked := RankUnits(units, incident)

	require.Len(t, ranked, 2)
	assert.Equal(t, "NEAR", ranked[0].ID)
	assert.Equal(t, 1.0, ranked[0].DistanceKm)
	assert.Equal(t, 3, ranked[0].ETA)
	assert.Equal(t, "FAR", ranked[1].ID)
	assert.Equal(t, 3.0, ranked[1].DistanceKm)
	assert.Equal(t, 8, ranked[1].ETA)
}

func TestETA(t *testing.T) {
	tests := []struct {
		km   float64
		want int
	}{
		{0, 0},
		{0.19, 0},
		{0.2, 1},
		{1, 3},
		{2, 5},
		{3, 8},
		{10, 25},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ETA(tt.km), "km=%v", tt.km)
	}
}

func TestDistanceIsPlanar(t *testing.T) {
	a := models.Coordinates{Lat: 0, Lng: 0}
	b := models.Coordinates{Lat: 0.03, Lng: 0.04}
	assert.InDelta(t, 0.05*KmPerDegree, DistanceKm(a, b), 1e-9)
	assert.Equal(t, DistanceKm(a, b), DistanceKm(b, a))
}

func TestRankHospitals(t *testing.T) {
	target := models.Coordinates{Lat: 0, Lng: 0}
	resources := []models.Resource{
		{ID: "H-FAR", Category: models.CategoryHospital, Coords: &models.Coordinates{Lat: 0.1}},
		{ID: "AMB", Category: models.CategoryAmbulance, Coords: &models.Coordinates{Lat: 0.001}},
		{ID: "H-NOWHERE", Category: models.CategoryHospital},
		{ID: "H-NEAR", Category: models.CategoryHospital, Coords: &models.Coordinates{Lng: 0.01}},
	}

	ranked := RankHospitals(resources, target)

	require.Len(t, ranked, 2)
	assert.Equal(t, "H-NEAR", ranked[0].ID)
	assert.Equal(t, "H-FAR", ranked[1].ID)
}

func TestCountdownsArmOnce(t *testing.T) {
	c := newCountdowns()
	fired := make(chan struct{}, 2)

	assert.True(t, c.arm("INC-1", time.Hour, func() { fired <- struct{}{} }))
	assert.False(t, c.arm("INC-1", time.Millisecond, func() { fired <- struct{}{} }))
	assert.True(t, c.cancel("INC-1"))
	assert.False(t, c.cancel("INC-1"))

	assert.True(t, c.arm("INC-1", time.Millisecond, func() { fired <- struct{}{} }))
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("countdown never fired")
	}
	assert.False(t, c.pending("INC-1"))
	assert.Zero(t, c.len())
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carescout/discovery/internal/domain/entities"
)

func testCityPlanner() *CoveragePlanner {
	regions := []entities.Region{
		{
			Name:             "TestCity",
			Center:           entities.GeoPoint{Latitude: 35.0, Longitude: 135.0},
			CoverageRadiusKm: 1,
			Districts: []entities.District{
				{Name: "Central", Center: &entities.GeoPoint{Latitude: 35.0, Longitude: 135.0}},
			},
		},
	}
	return NewCoveragePlanner(regions, 1000, 5.0)
}

func TestGenerateGrid_TestCityFixture(t *testing.T) {
	planner := testCityPlanner()

	grids := planner.GenerateGrid("TestCity")

	// 1 km radius with a 1000 m lattice keeps the center and its four
	// orthogonal neighbors (~999 m); diagonal corners (~1413 m) fall out.
	require.Len(t, grids, 5)

	ids := make([]string, 0, len(grids))
	for _, grid := range grids {
		ids = append(ids, grid.ID)
	}
	assert.Equal(t, []string{
		"testcity_0_-1",
		"testcity_-1_0",
		"testcity_0_0",
		"testcity_1_0",
		"testcity_0_1",
	}, ids)

	center := grids[2]
	assert.Equal(t, 35.0, center.Center.Latitude)
	assert.Equal(t, 135.0, center.Center.Longitude)
	assert.Equal(t, "testcity", center.Region)
	assert.Equal(t, "Central", center.Ward)
}

func TestGenerateGrid_Deterministic(t *testing.T) {
	planner := NewCoveragePlanner(DefaultRegions(), 1000, 5.0)

	first := planner.GenerateGrid("Tokyo")
	second := planner.GenerateGrid("Tokyo")

	require.NotEmpty(t, first)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Center, second[i].Center)
		assert.Equal(t, first[i].Ward, second[i].Ward)
	}
}

func TestGenerateGrid_AllPointsWithinRadius(t *testing.T) {
	planner := NewCoveragePlanner(DefaultRegions(), 1000, 5.0)

	region, ok := planner.Region("osaka")
	require.True(t, ok)

	grids := planner.GenerateGrid("osaka")
	require.NotEmpty(t, grids)
	for _, grid := range grids {
		assert.LessOrEqual(t, haversineKm(region.Center, grid.Center), region.CoverageRadiusKm,
			"grid %s outside coverage radius", grid.ID)
	}
}

func TestGenerateGrid_UnknownRegionIsEmpty(t *testing.T) {
	planner := testCityPlanner()

	grids := planner.GenerateGrid("Atlantis")
	assert.NotNil(t, grids)
	assert.Empty(t, grids)
}

func TestGenerateGrid_RegionAliasesResolve(t *testing.T) {
	planner := NewCoveragePlanner(DefaultRegions(), 1000, 5.0)

	direct := planner.GenerateGrid("tokyo")
	aliased := planner.GenerateGrid("東京")

	require.NotEmpty(t, direct)
	assert.Equal(t, len(direct), len(aliased))
	assert.Equal(t, direct[0].ID, aliased[0].ID)
}

func TestGenerateOverlapProbes_PatternShape(t *testing.T) {
	planner := testCityPlanner()
	center := entities.GeoPoint{Latitude: 35.0, Longitude: 135.0}

	probes := planner.GenerateOverlapProbes(center, 1000, 0.5)

	// Center plus two hexagonal rings
	require.Len(t, probes, 13)
	assert.Equal(t, 0, probes[0].Ring)
	assert.Equal(t, center, probes[0].Center)

	rings := map[int]int{}
	for _, probe := range probes {
		rings[probe.Ring]++
	}
	assert.Equal(t, map[int]int{0: 1, 1: 6, 2: 6}, rings)
}

func TestGenerateOverlapProbes_CoverageGuarantee(t *testing.T) {
	planner := testCityPlanner()
	center := entities.GeoPoint{Latitude: 35.0, Longitude: 135.0}
	radiusMeters := 1000
	probes := planner.GenerateOverlapProbes(center, radiusMeters, 0.5)

	// Sample the original circle on a fine lattice; every sample must be
	// inside at least one probe circle.
	for dy := -1000.0; dy <= 1000.0; dy += 100 {
		for dx := -1000.0; dx <= 1000.0; dx += 100 {
			point := planner.offsetPoint(center, dx, dy)
			if haversineKm(center, point)*1000 > float64(radiusMeters) {
				continue
			}
			covered := false
			for _, probe := range probes {
				if haversineKm(probe.Center, point)*1000 <= float64(probe.RadiusMeters) {
					covered = true
					break
				}
			}
			assert.True(t, covered, "point at offset (%v, %v) left uncovered", dx, dy)
		}
	}
}

func TestGenerateDistrictProbes(t *testing.T) {
	planner := NewCoveragePlanner(DefaultRegions(), 1000, 5.0)

	probes := planner.GenerateDistrictProbes("Tokyo", []string{"Shinjuku"}, []string{"heart doctor"})

	// Two keyword probes plus a coordinate probe for a known ward, with the
	// category collapsed to its canonical form.
	require.Len(t, probes, 3)
	assert.Equal(t, "cardiology Shinjuku tokyo", probes[0].Query)
	assert.Equal(t, "English cardiology near Shinjuku station", probes[1].Query)
	require.NotNil(t, probes[2].Point)
	assert.InDelta(t, 35.6938, probes[2].Point.Latitude, 1e-6)

	// Twice the districts and categories, deterministic order
	again := planner.GenerateDistrictProbes("Tokyo", []string{"Shinjuku"}, []string{"heart doctor"})
	assert.Equal(t, probes, again)
}

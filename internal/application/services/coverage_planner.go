package services

import (
	"fmt"
	"math"

	"github.com/carescout/discovery/internal/domain/entities"
	"github.com/carescout/discovery/internal/infrastructure/observability"
	"github.com/carescout/discovery/pkg/normalize"
)

const (
	earthRadiusKm      = 6371.0
	metersPerDegreeLat = 111320.0
)

// CoveragePlanner turns a region into an ordered, deterministic probe plan.
// The region table is injectable; DefaultRegions ships the production data.
type CoveragePlanner struct {
	regions         map[string]entities.Region
	gridSizeMeters  int
	wardCatchmentKm float64
}

// NewCoveragePlanner creates a planner over the given region table
func NewCoveragePlanner(regions []entities.Region, gridSizeMeters int, wardCatchmentKm float64) *CoveragePlanner {
	if gridSizeMeters <= 0 {
		gridSizeMeters = 1000
	}
	if wardCatchmentKm <= 0 {
		wardCatchmentKm = 5.0
	}

	table := make(map[string]entities.Region, len(regions))
	for _, region := range regions {
		table[normalize.Region(region.Name)] = region
	}
	return &CoveragePlanner{
		regions:         table,
		gridSizeMeters:  gridSizeMeters,
		wardCatchmentKm: wardCatchmentKm,
	}
}

// Region resolves a region by name through alias normalization
func (p *CoveragePlanner) Region(name string) (entities.Region, bool) {
	region, ok := p.regions[normalize.Region(name)]
	return region, ok
}

// GenerateGrid returns every lattice point within the region's coverage
// radius, in row-major order (south to north, west to east per row). An
// unknown region yields an empty plan, never an error.
func (p *CoveragePlanner) GenerateGrid(regionName string) []entities.SearchGrid {
	canonical := normalize.Region(regionName)
	region, ok := p.regions[canonical]
	if !ok {
		observability.GetLogger().Warn().
			Str("region", regionName).
			Msg("unknown region, returning empty grid plan")
		return []entities.SearchGrid{}
	}

	slug := normalize.Slug(canonical)
	radiusKm := region.CoverageRadiusKm
	steps := int(math.Ceil(radiusKm * 1000 / float64(p.gridSizeMeters)))

	grids := []entities.SearchGrid{}
	for dy := -steps; dy <= steps; dy++ {
		for dx := -steps; dx <= steps; dx++ {
			point := p.offsetPoint(region.Center, float64(dx)*float64(p.gridSizeMeters), float64(dy)*float64(p.gridSizeMeters))
			if haversineKm(region.Center, point) > radiusKm {
				continue
			}
			grids = append(grids, entities.SearchGrid{
				ID:           fmt.Sprintf("%s_%d_%d", slug, dx, dy),
				Center:       point,
				RadiusMeters: p.gridSizeMeters,
				Region:       canonical,
				Ward:         p.nearestWard(region, point),
			})
		}
	}
	return grids
}

// GenerateOverlapProbes returns a hex-packed probe pattern around a point:
// the center plus two rings at 60 degree spacing. The step distance of
// radius*2*overlapFactor keeps adjacent circles overlapping so no point
// within the original radius is left uncovered.
func (p *CoveragePlanner) GenerateOverlapProbes(center entities.GeoPoint, radiusMeters int, overlapFactor float64) []entities.ProbePoint {
	if overlapFactor <= 0 || overlapFactor >= 1 {
		overlapFactor = 0.5
	}

	step := float64(radiusMeters) * 2 * overlapFactor
	probes := []entities.ProbePoint{
		{Center: center, RadiusMeters: radiusMeters, Ring: 0, AngleDegrees: 0},
	}

	for ring := 1; ring <= 2; ring++ {
		distance := step * float64(ring)
		for angle := 0; angle < 360; angle += 60 {
			rad := float64(angle) * math.Pi / 180
			probes = append(probes, entities.ProbePoint{
				Center:       p.offsetPoint(center, distance*math.Cos(rad), distance*math.Sin(rad)),
				RadiusMeters: radiusMeters,
				Ring:         ring,
				AngleDegrees: angle,
			})
		}
	}
	return probes
}

// GenerateDistrictProbes builds deterministic keyword queries per district and
// category, plus a coordinate probe when the district center is known.
func (p *CoveragePlanner) GenerateDistrictProbes(regionName string, districts []string, categories []string) []entities.DistrictProbe {
	canonical := normalize.Region(regionName)
	region, known := p.regions[canonical]

	centers := map[string]*entities.GeoPoint{}
	if known {
		for _, district := range region.Districts {
			centers[normalize.Slug(district.Name)] = district.Center
		}
	}

	probes := []entities.DistrictProbe{}
	for _, district := range districts {
		for _, category := range categories {
			canonicalCategory := normalize.Category(category)
			probes = append(probes,
				entities.DistrictProbe{
					Region:   canonical,
					District: district,
					Category: canonicalCategory,
					Query:    fmt.Sprintf("%s %s %s", canonicalCategory, district, canonical),
				},
				entities.DistrictProbe{
					Region:   canonical,
					District: district,
					Category: canonicalCategory,
					Query:    fmt.Sprintf("English %s near %s station", canonicalCategory, district),
				},
			)
			if center := centers[normalize.Slug(district)]; center != nil {
				probes = append(probes, entities.DistrictProbe{
					Region:   canonical,
					District: district,
					Category: canonicalCategory,
					Point:    center,
				})
			}
		}
	}
	return probes
}

// offsetPoint shifts a point by meters east (dx) and north (dy) using the
// equirectangular approximation, which matches the lattice the grid is
// defined on.
func (p *CoveragePlanner) offsetPoint(origin entities.GeoPoint, dxMeters, dyMeters float64) entities.GeoPoint {
	latRad := origin.Latitude * math.Pi / 180
	return entities.GeoPoint{
		Latitude:  origin.Latitude + dyMeters/metersPerDegreeLat,
		Longitude: origin.Longitude + dxMeters/(metersPerDegreeLat*math.Cos(latRad)),
	}
}

func (p *CoveragePlanner) nearestWard(region entities.Region, point entities.GeoPoint) string {
	best := ""
	bestKm := p.wardCatchmentKm
	for _, district := range region.Districts {
		if district.Center == nil {
			continue
		}
		if d := haversineKm(point, *district.Center); d <= bestKm {
			best = district.Name
			bestKm = d
		}
	}
	return best
}

// haversineKm is the great-circle distance on a spherical earth (R=6371 km)
func haversineKm(a, b entities.GeoPoint) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

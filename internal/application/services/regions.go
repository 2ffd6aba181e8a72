package services

import "github.com/carescout/discovery/internal/domain/entities"

// DefaultRegions is the static coverage reference table. Centers and radii
// are planning anchors, not authoritative municipal boundaries.
func DefaultRegions() []entities.Region {
	return []entities.Region{
		{
			Name:             "tokyo",
			Center:           entities.GeoPoint{Latitude: 35.6762, Longitude: 139.6503},
			CoverageRadiusKm: 25,
			TopTier:          true,
			Districts:        tokyoWards(),
		},
		{
			Name:             "osaka",
			Center:           entities.GeoPoint{Latitude: 34.6937, Longitude: 135.5023},
			CoverageRadiusKm: 18,
			TopTier:          true,
			Districts: []entities.District{
				{Name: "Kita", Center: &entities.GeoPoint{Latitude: 34.7055, Longitude: 135.4983}},
				{Name: "Chuo", Center: &entities.GeoPoint{Latitude: 34.6818, Longitude: 135.5100}},
				{Name: "Tennoji", Center: &entities.GeoPoint{Latitude: 34.6526, Longitude: 135.5186}},
				{Name: "Yodogawa", Center: &entities.GeoPoint{Latitude: 34.7213, Longitude: 135.4861}},
				{Name: "Abeno", Center: &entities.GeoPoint{Latitude: 34.6385, Longitude: 135.5187}},
			},
		},
		{
			Name:             "kyoto",
			Center:           entities.GeoPoint{Latitude: 35.0116, Longitude: 135.7681},
			CoverageRadiusKm: 12,
			TopTier:          true,
			Districts: []entities.District{
				{Name: "Nakagyo", Center: &entities.GeoPoint{Latitude: 35.0117, Longitude: 135.7556}},
				{Name: "Shimogyo", Center: &entities.GeoPoint{Latitude: 34.9932, Longitude: 135.7520}},
				{Name: "Sakyo", Center: &entities.GeoPoint{Latitude: 35.0391, Longitude: 135.7808}},
			},
		},
		{
			Name:             "yokohama",
			Center:           entities.GeoPoint{Latitude: 35.4437, Longitude: 139.6380},
			CoverageRadiusKm: 15,
			Districts: []entities.District{
				{Name: "Naka", Center: &entities.GeoPoint{Latitude: 35.4443, Longitude: 139.6424}},
				{Name: "Nishi", Center: &entities.GeoPoint{Latitude: 35.4580, Longitude: 139.6181}},
				{Name: "Kohoku", Center: &entities.GeoPoint{Latitude: 35.5183, Longitude: 139.6326}},
			},
		},
		{
			Name:             "nagoya",
			Center:           entities.GeoPoint{Latitude: 35.1815, Longitude: 136.9066},
			CoverageRadiusKm: 15,
			Districts: []entities.District{
				{Name: "Naka", Center: &entities.GeoPoint{Latitude: 35.1680, Longitude: 136.9095}},
				{Name: "Higashi", Center: &entities.GeoPoint{Latitude: 35.1798, Longitude: 136.9252}},
			},
		},
		{
			Name:             "fukuoka",
			Center:           entities.GeoPoint{Latitude: 33.5904, Longitude: 130.4017},
			CoverageRadiusKm: 12,
			Districts: []entities.District{
				{Name: "Hakata", Center: &entities.GeoPoint{Latitude: 33.5903, Longitude: 130.4208}},
				{Name: "Chuo", Center: &entities.GeoPoint{Latitude: 33.5892, Longitude: 130.3929}},
			},
		},
		{
			Name:             "sapporo",
			Center:           entities.GeoPoint{Latitude: 43.0618, Longitude: 141.3545},
			CoverageRadiusKm: 12,
			Districts: []entities.District{
				{Name: "Chuo", Center: &entities.GeoPoint{Latitude: 43.0555, Longitude: 141.3406}},
				{Name: "Kita", Center: &entities.GeoPoint{Latitude: 43.0907, Longitude: 141.3406}},
			},
		},
		{
			Name:             "kobe",
			Center:           entities.GeoPoint{Latitude: 34.6901, Longitude: 135.1956},
			CoverageRadiusKm: 12,
			Districts: []entities.District{
				{Name: "Chuo", Center: &entities.GeoPoint{Latitude: 34.6913, Longitude: 135.1830}},
				{Name: "Nada", Center: &entities.GeoPoint{Latitude: 34.7095, Longitude: 135.2323}},
			},
		},
	}
}

// tokyoWards lists the 23 special wards with their approximate office
// locations, used for catchment tagging of grid points.
func tokyoWards() []entities.District {
	return []entities.District{
		{Name: "Chiyoda", Center: &entities.GeoPoint{Latitude: 35.6940, Longitude: 139.7536}},
		{Name: "Chuo", Center: &entities.GeoPoint{Latitude: 35.6707, Longitude: 139.7720}},
		{Name: "Minato", Center: &entities.GeoPoint{Latitude: 35.6581, Longitude: 139.7516}},
		{Name: "Shinjuku", Center: &entities.GeoPoint{Latitude: 35.6938, Longitude: 139.7034}},
		{Name: "Bunkyo", Center: &entities.GeoPoint{Latitude: 35.7081, Longitude: 139.7522}},
		{Name: "Taito", Center: &entities.GeoPoint{Latitude: 35.7128, Longitude: 139.7800}},
		{Name: "Sumida", Center: &entities.GeoPoint{Latitude: 35.7107, Longitude: 139.8015}},
		{Name: "Koto", Center: &entities.GeoPoint{Latitude: 35.6730, Longitude: 139.8171}},
		{Name: "Shinagawa", Center: &entities.GeoPoint{Latitude: 35.6092, Longitude: 139.7302}},
		{Name: "Meguro", Center: &entities.GeoPoint{Latitude: 35.6415, Longitude: 139.6982}},
		{Name: "Ota", Center: &entities.GeoPoint{Latitude: 35.5614, Longitude: 139.7161}},
		{Name: "Setagaya", Center: &entities.GeoPoint{Latitude: 35.6464, Longitude: 139.6530}},
		{Name: "Shibuya", Center: &entities.GeoPoint{Latitude: 35.6640, Longitude: 139.6982}},
		{Name: "Nakano", Center: &entities.GeoPoint{Latitude: 35.7074, Longitude: 139.6638}},
		{Name: "Suginami", Center: &entities.GeoPoint{Latitude: 35.6994, Longitude: 139.6363}},
		{Name: "Toshima", Center: &entities.GeoPoint{Latitude: 35.7263, Longitude: 139.7172}},
		{Name: "Kita", Center: &entities.GeoPoint{Latitude: 35.7528, Longitude: 139.7336}},
		{Name: "Arakawa", Center: &entities.GeoPoint{Latitude: 35.7362, Longitude: 139.7834}},
		{Name: "Itabashi", Center: &entities.GeoPoint{Latitude: 35.7512, Longitude: 139.7093}},
		{Name: "Nerima", Center: &entities.GeoPoint{Latitude: 35.7357, Longitude: 139.6516}},
		{Name: "Adachi", Center: &entities.GeoPoint{Latitude: 35.7750, Longitude: 139.8047}},
		{Name: "Katsushika", Center: &entities.GeoPoint{Latitude: 35.7434, Longitude: 139.8473}},
		{Name: "Edogawa", Center: &entities.GeoPoint{Latitude: 35.7067, Longitude: 139.8686}},
	}
}

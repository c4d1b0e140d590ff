package osm2tram

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
)

// lineStringCoordinates returns [[lon, lat], ...]; never nil
func lineStringCoordinates(line orb.LineString) [][]float64 {
	pts2d := make([][]float64, len(line))
	for i := range line {
		pts2d[i] = []float64{line[i].Lon(), line[i].Lat()}
	}
	return pts2d
}

// PrepareGeoJSONMultiLinestring returns GeoJSON geometry of MultiLineString. Empty geometry has empty coordinates, not null.
func PrepareGeoJSONMultiLinestring(mls orb.MultiLineString) *geojson.Geometry {
	lines := make([][][]float64, len(mls))
	for i := range mls {
		lines[i] = lineStringCoordinates(mls[i])
	}
	return geojson.NewMultiLineStringGeometry(lines...)
}

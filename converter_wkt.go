package osm2tram

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// PrepareWKTMultiLinestring returns WKT representation of MultiLineString
func PrepareWKTMultiLinestring(mls orb.MultiLineString) string {
	return wkt.MarshalString(mls)
}

// PrepareWKTPoint returns WKT representation of Point
func PrepareWKTPoint(pt orb.Point) string {
	return wkt.MarshalString(pt)
}

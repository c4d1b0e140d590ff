package osm2tram

import (
	"encoding/json"
	"fmt"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// TransportLine is one direction (or branch) of tram route
type TransportLine struct {
	Number uint8
	From   string
	To     string
	// Path as unordered set of way geometries. Ways are not stitched.
	Geometry orb.MultiLineString
	// Stop nodes in relation member order. Not guaranteed to exist in Stations.
	Stations []osm.NodeID
}

// LineKey is the part of TransportLine which takes part in ordering
type LineKey struct {
	Number uint8
	From   string
	To     string
}

// Key returns ordering key. Geometry and stations are excluded on purpose.
func (line TransportLine) Key() LineKey {
	return LineKey{
		Number: line.Number,
		From:   line.From,
		To:     line.To,
	}
}

// Less compares keys by number, then from, then to
func (key LineKey) Less(other LineKey) bool {
	if key.Number != other.Number {
		return key.Number < other.Number
	}
	if key.From != other.From {
		return key.From < other.From
	}
	return key.To < other.To
}

// String returns pretty printed value for LineKey
func (key LineKey) String() string {
	return fmt.Sprintf("Tram %d: %s => %s", key.Number, key.From, key.To)
}

type transportLineJSON struct {
	Number   uint8             `json:"number"`
	From     string            `json:"from"`
	To       string            `json:"to"`
	Geometry *geojson.Geometry `json:"geometry"`
	Stations []osm.NodeID      `json:"stations"`
}

// MarshalJSON renders geometry as GeoJSON MultiLineString
func (line TransportLine) MarshalJSON() ([]byte, error) {
	stations := line.Stations
	if stations == nil {
		stations = []osm.NodeID{}
	}
	return json.Marshal(transportLineJSON{
		Number:   line.Number,
		From:     line.From,
		To:       line.To,
		Geometry: PrepareGeoJSONMultiLinestring(line.Geometry),
		Stations: stations,
	})
}

package osm2tram

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// ErrStationWithoutName is returned when tram stop node has no `name` tag
var ErrStationWithoutName = errors.New("Node without name")

// Station is a single tram stop
type Station struct {
	ID       osm.NodeID `json:"id"`
	Name     string     `json:"name"`
	Position orb.Point  `json:"position"`
}

// Stations is a set of stations keyed by node identifier
type Stations map[osm.NodeID]Station

// isTramStop checks `railway=tram_stop`
func isTramStop(node *osm.Node) bool {
	return node.Tags.Find(tagRailway) == railwayTramStop
}

// ExtractStations collects every tram stop node of the collection.
// A tram stop without name aborts extraction.
func ExtractStations(objs *Collection) (Stations, error) {
	stations := make(Stations)
	for _, nodeID := range objs.nodeIDs() {
		node := objs.Nodes[nodeID]
		if !isTramStop(node) {
			continue
		}
		nameTag := node.Tags.FindTag(tagName)
		if nameTag == nil {
			return nil, errors.Wrapf(ErrStationWithoutName, "Node ID: '%d'", nodeID)
		}
		stations[nodeID] = Station{
			ID:       nodeID,
			Name:     nameTag.Value,
			Position: orb.Point{node.Lon, node.Lat},
		}
	}
	return stations, nil
}

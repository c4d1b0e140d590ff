package osm2tram

import (
	"log"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

var (
	// ErrLineWithoutName is returned when route relation has no `name` tag
	ErrLineWithoutName = errors.New("name tag not found")
	// ErrStopNotNode is returned when member with `stop` role is not a node
	ErrStopNotNode = errors.New("Object with role stop should be a node")
)

// wayGeometry resolves way nodes into coordinates. Nodes absent in collection are skipped.
func (objs *Collection) wayGeometry(way *osm.Way) orb.LineString {
	line := make(orb.LineString, 0, len(way.Nodes))
	for _, wayNode := range way.Nodes {
		node, ok := objs.Nodes[wayNode.ID]
		if !ok {
			continue
		}
		line = append(line, orb.Point{node.Lon, node.Lat})
	}
	return line
}

// reconstructLine builds line for given route relation.
// Returns nil line (and nil error) when relation name can't be parsed.
func (objs *Collection) reconstructLine(relation *osm.Relation, logger *log.Logger) (*TransportLine, error) {
	geometry := orb.MultiLineString{}
	stations := []osm.NodeID{}
	for _, member := range relation.Members {
		switch member.Role {
		case roleGeometry:
			if member.Type != osm.TypeWay {
				continue
			}
			way, ok := objs.Ways[osm.WayID(member.Ref)]
			if !ok {
				continue
			}
			geometry = append(geometry, objs.wayGeometry(way))
		case roleStop:
			if member.Type != osm.TypeNode {
				return nil, errors.Wrapf(ErrStopNotNode, "Relation ID: '%d'. Member: '%s/%d'", relation.ID, member.Type, member.Ref)
			}
			stations = append(stations, osm.NodeID(member.Ref))
		default:
			// Platforms, stop_entry_only and etc. are not needed
		}
	}

	nameTag := relation.Tags.FindTag(tagName)
	if nameTag == nil {
		return nil, errors.Wrapf(ErrLineWithoutName, "Relation ID: '%d'", relation.ID)
	}
	name := nameTag.Value
	parsed, matched, err := parseLineName(name)
	if err != nil {
		return nil, errors.Wrapf(err, "Relation ID: '%d'", relation.ID)
	}
	if !matched {
		logger.Printf("Unparseable line name '%s', ignoring\n", name)
		return nil, nil
	}
	return &TransportLine{
		Number:   parsed.number,
		From:     parsed.from,
		To:       parsed.to,
		Geometry: geometry,
		Stations: stations,
	}, nil
}

// ReconstructLines builds transport lines for every relation with `route` tag.
// Relations with unparseable names are reported via logger and skipped.
func ReconstructLines(objs *Collection, logger *log.Logger) ([]TransportLine, error) {
	if logger == nil {
		logger = defaultLogger()
	}
	lines := []TransportLine{}
	for _, relationID := range objs.relationIDs() {
		relation := objs.Relations[relationID]
		if !RouteRelations(relation) {
			continue
		}
		line, err := objs.reconstructLine(relation, logger)
		if err != nil {
			return nil, err
		}
		if line == nil {
			continue
		}
		lines = append(lines, *line)
	}
	return lines, nil
}

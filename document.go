package osm2tram

import (
	"sort"

	"github.com/paulmach/osm"
)

// Document is the final aggregate: stations and ordered lines
type Document struct {
	Stations Stations        `json:"stations"`
	Lines    []TransportLine `json:"lines"`
}

// sortLines orders lines by (number, from, to). Ties keep input order.
func sortLines(lines []TransportLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Key().Less(lines[j].Key())
	})
}

// AssembleDocument sorts lines and pairs them with stations. No deduplication is done.
func AssembleDocument(lines []TransportLine, stations Stations) *Document {
	sorted := make([]TransportLine, len(lines))
	copy(sorted, lines)
	sortLines(sorted)
	if stations == nil {
		stations = make(Stations)
	}
	return &Document{
		Stations: stations,
		Lines:    sorted,
	}
}

// DanglingStations returns stop references of lines which have no matching station (in order of appearance, unique)
func (doc *Document) DanglingStations() []osm.NodeID {
	dangling := []osm.NodeID{}
	seen := make(map[osm.NodeID]struct{})
	for _, line := range doc.Lines {
		for _, stationID := range line.Stations {
			if _, ok := doc.Stations[stationID]; ok {
				continue
			}
			if _, ok := seen[stationID]; ok {
				continue
			}
			seen[stationID] = struct{}{}
			dangling = append(dangling, stationID)
		}
	}
	return dangling
}

// stationIDs returns sorted station identifiers
func (doc *Document) stationIDs() []osm.NodeID {
	ids := make([]osm.NodeID, 0, len(doc.Stations))
	for id := range doc.Stations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

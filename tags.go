package osm2tram

import "regexp"

const (
	tagName    = "name"
	tagRoute   = "route"
	tagRailway = "railway"

	railwayTramStop = "tram_stop"
)

// Relation member roles
const (
	roleGeometry = ""
	roleStop     = "stop"
)

var (
	// "Tram <number>: <from> => [<via> => ]<to>"
	lineNameRegExp = regexp.MustCompile(`^Tram (.*): (.*?) =[ ]?> (?:.* => )?(.*)$`)
)

package osm2tram

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrLineNumber is returned when line name matches the pattern but its number does not fit into 0..255
var ErrLineNumber = errors.New("Line number should be parseable as number")

// lineName is structured content of route relation name
type lineName struct {
	number uint8
	from   string
	to     string
}

// parseLineName parses "Tram <number>: <from> => [... => ]<to>".
// Returns false when name does not match at all; intermediate stops are dropped.
func parseLineName(name string) (lineName, bool, error) {
	groups := lineNameRegExp.FindStringSubmatch(name)
	if groups == nil {
		return lineName{}, false, nil
	}
	// Explicit plus sign is allowed: "Tram +7: ..." is line 7
	number, err := strconv.ParseUint(strings.TrimPrefix(groups[1], "+"), 10, 8)
	if err != nil {
		return lineName{}, true, errors.Wrapf(ErrLineNumber, "Got '%s' in '%s'", groups[1], name)
	}
	return lineName{
		number: uint8(number),
		from:   groups[2],
		to:     groups[3],
	}, true, nil
}

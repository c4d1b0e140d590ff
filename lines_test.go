package osm2tram

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

func routeRelation(id osm.RelationID, name string, members ...osm.Member) *osm.Relation {
	tags := osm.Tags{{Key: "type", Value: "route"}, {Key: "route", Value: "tram"}}
	if name != "" {
		tags = append(tags, osm.Tag{Key: "name", Value: name})
	}
	return &osm.Relation{ID: id, Tags: tags, Members: members}
}

func wayMember(id osm.WayID, role string) osm.Member {
	return osm.Member{Type: osm.TypeWay, Ref: int64(id), Role: role}
}

func nodeMember(id osm.NodeID, role string) osm.Member {
	return osm.Member{Type: osm.TypeNode, Ref: int64(id), Role: role}
}

func sampleCollection() *Collection {
	objs := NewCollection()
	for i := 1; i <= 6; i++ {
		objs.Nodes[osm.NodeID(i)] = &osm.Node{ID: osm.NodeID(i), Lon: float64(i), Lat: float64(10 * i)}
	}
	objs.Ways[10] = &osm.Way{ID: 10, Nodes: osm.WayNodes{{ID: 1}, {ID: 2}, {ID: 3}}}
	objs.Ways[11] = &osm.Way{ID: 11, Nodes: osm.WayNodes{{ID: 6}, {ID: 5}, {ID: 4}}}
	return objs
}

func silentLogger() *log.Logger {
	return log.New(&bytes.Buffer{}, "", 0)
}

func TestReconstructLinesMultiWayGeometry(t *testing.T) {
	objs := sampleCollection()
	objs.Relations[100] = routeRelation(100, "Tram 4: A => B", wayMember(10, ""), wayMember(11, ""))

	lines, err := ReconstructLines(objs, silentLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Fatalf("Number of lines must be 1, but got %d", len(lines))
	}
	correct := orb.MultiLineString{
		{{1, 10}, {2, 20}, {3, 30}},
		{{6, 60}, {5, 50}, {4, 40}},
	}
	geom := lines[0].Geometry
	if len(geom) != len(correct) {
		t.Fatalf("Number of line strings must be %d, but got %d", len(correct), len(geom))
	}
	if !geom.Equal(correct) {
		t.Errorf("Geometry must be %v, but got %v", correct, geom)
	}
}

func TestReconstructLinesStopsOrder(t *testing.T) {
	objs := sampleCollection()
	objs.Relations[100] = routeRelation(100, "Tram 4: A => B", nodeMember(3, "stop"), wayMember(10, ""), nodeMember(1, "stop"), nodeMember(2, "platform"))

	lines, err := ReconstructLines(objs, silentLogger())
	if err != nil {
		t.Fatal(err)
	}
	correct := []osm.NodeID{3, 1}
	stations := lines[0].Stations
	if len(stations) != len(correct) {
		t.Fatalf("Number of stations must be %d, but got %d", len(correct), len(stations))
	}
	for i := range correct {
		if stations[i] != correct[i] {
			t.Errorf("Station at pos #%d must be %d, but got %d", i, correct[i], stations[i])
		}
	}
	if len(lines[0].Geometry) != 1 {
		t.Errorf("Number of line strings must be 1, but got %d", len(lines[0].Geometry))
	}
}

func TestReconstructLinesMissingObjects(t *testing.T) {
	objs := sampleCollection()
	objs.Ways[12] = &osm.Way{ID: 12, Nodes: osm.WayNodes{{ID: 1}, {ID: 999}, {ID: 2}}}
	objs.Relations[100] = routeRelation(100, "Tram 4: A => B", wayMember(12, ""), wayMember(777, ""), nodeMember(1, ""))

	lines, err := ReconstructLines(objs, silentLogger())
	if err != nil {
		t.Fatal(err)
	}
	correct := orb.MultiLineString{{{1, 10}, {2, 20}}}
	if !lines[0].Geometry.Equal(correct) {
		t.Errorf("Geometry must be %v, but got %v", correct, lines[0].Geometry)
	}
}

func TestReconstructLinesUnparseableName(t *testing.T) {
	objs := sampleCollection()
	objs.Relations[100] = routeRelation(100, "Bus 4: A => B", wayMember(10, ""))
	objs.Relations[101] = routeRelation(101, "Tram 4 A - B", wayMember(10, ""))
	objs.Relations[102] = routeRelation(102, "Tram 5: C => D", wayMember(11, ""))

	buf := &bytes.Buffer{}
	lines, err := ReconstructLines(objs, log.New(buf, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Fatalf("Number of lines must be 1, but got %d", len(lines))
	}
	if lines[0].Key() != (LineKey{Number: 5, From: "C", To: "D"}) {
		t.Errorf("Wrong line has been kept: %s", lines[0].Key())
	}
	diagnostics := buf.String()
	for _, name := range []string{"Bus 4: A => B", "Tram 4 A - B"} {
		if !strings.Contains(diagnostics, "Unparseable line name '"+name+"', ignoring") {
			t.Errorf("Diagnostics must mention '%s', but got %q", name, diagnostics)
		}
	}
}

func TestReconstructLinesIgnoresNonRoutes(t *testing.T) {
	objs := sampleCollection()
	objs.Relations[100] = &osm.Relation{ID: 100, Tags: osm.Tags{{Key: "name", Value: "Tram 1: A => B"}}, Members: osm.Members{wayMember(10, "")}}
	objs.Relations[101] = &osm.Relation{ID: 101, Members: osm.Members{wayMember(10, "stop")}}

	lines, err := ReconstructLines(objs, silentLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 0 {
		t.Errorf("Relations without route tag must be ignored, but got %d lines", len(lines))
	}
}

func TestReconstructLinesFatal(t *testing.T) {
	cases := []struct {
		relation *osm.Relation
		cause    error
	}{
		{routeRelation(100, "Tram 4: A => B", nodeMember(1, "stop"), wayMember(10, "stop")), ErrStopNotNode},
		{routeRelation(100, "", wayMember(10, "")), ErrLineWithoutName},
		{routeRelation(100, "Tram 300: A => B", wayMember(10, "")), ErrLineNumber},
	}
	for _, c := range cases {
		objs := sampleCollection()
		objs.Relations[100] = c.relation
		lines, err := ReconstructLines(objs, silentLogger())
		if errors.Cause(err) != c.cause {
			t.Errorf("Error must be '%v', but got '%v'", c.cause, err)
		}
		if lines != nil {
			t.Errorf("No lines must be returned on error, but got %d", len(lines))
		}
	}
}

func TestReconstructLinesSignedNumber(t *testing.T) {
	objs := sampleCollection()
	objs.Relations[100] = routeRelation(100, "Tram +7: A => B", wayMember(10, ""))
	objs.Relations[101] = routeRelation(101, "Tram 3: C => D", wayMember(11, ""))

	lines, err := ReconstructLines(objs, silentLogger())
	if err != nil {
		t.Fatal(err)
	}
	correct := []LineKey{{7, "A", "B"}, {3, "C", "D"}}
	if len(lines) != len(correct) {
		t.Fatalf("Number of lines must be %d, but got %d", len(correct), len(lines))
	}
	for i := range correct {
		if lines[i].Key() != correct[i] {
			t.Errorf("Line at pos #%d must be %s, but got %s", i, correct[i], lines[i].Key())
		}
	}
}

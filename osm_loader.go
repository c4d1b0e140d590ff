package osm2tram

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

// OSMScanner is the common part of PBF and XML scanners
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// FileFormat is an encoding of OSM extract
type FileFormat uint16

const (
	FORMAT_PBF = FileFormat(iota + 1)
	FORMAT_XML
	FORMAT_UNDEFINED = FileFormat(0)
)

func (iotaIdx FileFormat) String() string {
	return [...]string{"undefined", "pbf", "xml"}[iotaIdx]
}

// formatFromFilename guesses extract format by file extension
func formatFromFilename(filename string) (FileFormat, error) {
	ext := filepath.Ext(filename)
	switch ext {
	case ".osm", ".xml":
		return FORMAT_XML, nil
	case ".pbf":
		return FORMAT_PBF, nil
	default:
		return FORMAT_UNDEFINED, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, filename)
	}
}

// ObjectFilter selects objects which should be loaded together with everything they reference
type ObjectFilter func(obj osm.Object) bool

// RouteRelations selects relations carrying a `route` tag
func RouteRelations(obj osm.Object) bool {
	relation, ok := obj.(*osm.Relation)
	if !ok {
		return false
	}
	return relation.Tags.HasTag(tagRoute)
}

// Loader provides objects matching the filter plus all objects transitively referenced by them
type Loader interface {
	Load(ctx context.Context, filter ObjectFilter) (*Collection, error)
}

// Collection is an in-memory identifier-keyed set of OSM objects
type Collection struct {
	Nodes     map[osm.NodeID]*osm.Node
	Ways      map[osm.WayID]*osm.Way
	Relations map[osm.RelationID]*osm.Relation
}

// NewCollection returns empty collection
func NewCollection() *Collection {
	return &Collection{
		Nodes:     make(map[osm.NodeID]*osm.Node),
		Ways:      make(map[osm.WayID]*osm.Way),
		Relations: make(map[osm.RelationID]*osm.Relation),
	}
}

// Size returns total number of objects
func (objs *Collection) Size() int {
	return len(objs.Nodes) + len(objs.Ways) + len(objs.Relations)
}

// nodeIDs returns sorted node identifiers
func (objs *Collection) nodeIDs() []osm.NodeID {
	ids := make([]osm.NodeID, 0, len(objs.Nodes))
	for id := range objs.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// relationIDs returns sorted relation identifiers
func (objs *Collection) relationIDs() []osm.RelationID {
	ids := make([]osm.RelationID, 0, len(objs.Relations))
	for id := range objs.Relations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// FileLoader loads objects from *.osm.pbf, *.osm or *.xml file
type FileLoader struct {
	filename string
	verbose  bool
	logger   *log.Logger
}

// NewFileLoader returns loader for given file
func NewFileLoader(filename string, verbose bool, logger *log.Logger) *FileLoader {
	if logger == nil {
		logger = defaultLogger()
	}
	return &FileLoader{
		filename: filename,
		verbose:  verbose,
		logger:   logger,
	}
}

// Load implements Loader
func (loader *FileLoader) Load(ctx context.Context, filter ObjectFilter) (*Collection, error) {
	format, err := formatFromFilename(loader.filename)
	if err != nil {
		return nil, err
	}
	if loader.verbose {
		loader.logger.Printf("Opening file: '%s'...\n", loader.filename)
	}
	file, err := os.Open(loader.filename)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open file")
	}
	defer file.Close()
	objs, err := loadObjects(ctx, file, format, filter, loader.verbose, loader.logger)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't decode file '%s'", loader.filename)
	}
	return objs, nil
}

// LoadReader loads objects from any seekable source. Source is read several times.
func LoadReader(ctx context.Context, r io.ReadSeeker, format FileFormat, filter ObjectFilter) (*Collection, error) {
	return loadObjects(ctx, r, format, filter, false, defaultLogger())
}

func newScanner(ctx context.Context, r io.Reader, format FileFormat) (OSMScanner, error) {
	switch format {
	case FORMAT_XML:
		return osmxml.New(ctx, r), nil
	case FORMAT_PBF:
		return osmpbf.New(ctx, r, 4), nil
	default:
		return nil, fmt.Errorf("File format '%s' is not handled yet", format)
	}
}

// scanPass rewinds source and feeds every decoded object to the callback
func scanPass(ctx context.Context, r io.ReadSeeker, format FileFormat, callback func(obj osm.Object)) error {
	_, err := r.Seek(0, io.SeekStart)
	if err != nil {
		return errors.Wrap(err, "Can't seek to start")
	}
	scanner, err := newScanner(ctx, r, format)
	if err != nil {
		return err
	}
	for scanner.Scan() {
		callback(scanner.Object())
	}
	err = scanner.Err()
	if err != nil {
		scanner.Close()
		return err
	}
	return scanner.Close()
}

func loadObjects(ctx context.Context, r io.ReadSeeker, format FileFormat, filter ObjectFilter, verbose bool, logger *log.Logger) (*Collection, error) {
	objs := NewCollection()
	relationsSeen := make(map[osm.RelationID]struct{})
	waysSeen := make(map[osm.WayID]struct{})
	nodesSeen := make(map[osm.NodeID]struct{})

	markMembers := func(relation *osm.Relation) {
		for _, member := range relation.Members {
			switch member.Type {
			case osm.TypeNode:
				nodesSeen[osm.NodeID(member.Ref)] = struct{}{}
			case osm.TypeWay:
				waysSeen[osm.WayID(member.Ref)] = struct{}{}
			case osm.TypeRelation:
				relationsSeen[osm.RelationID(member.Ref)] = struct{}{}
			}
		}
	}

	/* Process relations. Nested members may be placed before their parents, so repeat until closure */
	if verbose {
		logger.Printf("\tProcessing relations... ")
	}
	st := time.Now()
	passes := 0
	for {
		passes++
		loaded := len(objs.Relations)
		err := scanPass(ctx, r, format, func(obj osm.Object) {
			relation, ok := obj.(*osm.Relation)
			if !ok {
				return
			}
			if _, ok := objs.Relations[relation.ID]; ok {
				return
			}
			_, needed := relationsSeen[relation.ID]
			if !needed && !filter(relation) {
				return
			}
			objs.Relations[relation.ID] = relation
			markMembers(relation)
		})
		if err != nil {
			return nil, errors.Wrap(err, "Scanner error on relations")
		}
		missing := 0
		for relationID := range relationsSeen {
			if _, ok := objs.Relations[relationID]; !ok {
				missing++
			}
		}
		if missing == 0 || len(objs.Relations) == loaded {
			break
		}
	}
	if verbose {
		logger.Printf("Done in %v (passes: %d)\n", time.Since(st), passes)
	}

	/* Process ways */
	if verbose {
		logger.Printf("\tProcessing ways... ")
	}
	st = time.Now()
	err := scanPass(ctx, r, format, func(obj osm.Object) {
		way, ok := obj.(*osm.Way)
		if !ok {
			return
		}
		if _, ok := waysSeen[way.ID]; !ok && !filter(way) {
			return
		}
		objs.Ways[way.ID] = way
		for _, node := range way.Nodes {
			nodesSeen[node.ID] = struct{}{}
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "Scanner error on ways")
	}
	if verbose {
		logger.Printf("Done in %v\n", time.Since(st))
	}

	/* Process nodes */
	if verbose {
		logger.Printf("\tProcessing nodes... ")
	}
	st = time.Now()
	err = scanPass(ctx, r, format, func(obj osm.Object) {
		node, ok := obj.(*osm.Node)
		if !ok {
			return
		}
		if _, ok := nodesSeen[node.ID]; !ok && !filter(node) {
			return
		}
		objs.Nodes[node.ID] = node
	})
	if err != nil {
		return nil, errors.Wrap(err, "Scanner error on nodes")
	}
	if verbose {
		logger.Printf("Done in %v\n", time.Since(st))
		logger.Printf("Number of relations: %d\n", len(objs.Relations))
		logger.Printf("Number of ways: %d\n", len(objs.Ways))
		logger.Printf("Number of nodes: %d\n", len(objs.Nodes))
	}
	return objs, nil
}

package osm2tram

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Parser struct {
	filename string
	verbose  bool
	logger   *log.Logger
	loader   Loader
}

func (parser *Parser) String() string {
	return fmt.Sprintf(`
Transport lines parser parameters:
	filename: '%s'
	verbose: %t
	custom loader: %t
	`,
		parser.filename,
		parser.verbose,
		parser.loader != nil,
	)
}

func defaultLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

func NewParser(fileName string, options ...func(*Parser)) *Parser {
	parser := &Parser{
		filename: fileName,
		verbose:  false,
		logger:   defaultLogger(),
	}
	for _, option := range options {
		option(parser)
	}
	return parser
}

func WithVerbose(verbose bool) func(*Parser) {
	return func(parser *Parser) {
		parser.verbose = verbose
	}
}

// WithLogger sets destination for diagnostics (unparseable names, progress)
func WithLogger(logger *log.Logger) func(*Parser) {
	return func(parser *Parser) {
		if logger != nil {
			parser.logger = logger
		}
	}
}

// WithLoader replaces file based loader, e.g. with in-memory one
func WithLoader(loader Loader) func(*Parser) {
	return func(parser *Parser) {
		parser.loader = loader
	}
}

// Parse runs whole pipeline: load -> stations, lines -> document
func (parser *Parser) Parse(ctx context.Context) (*Document, error) {
	loader := parser.loader
	if loader == nil {
		loader = NewFileLoader(parser.filename, parser.verbose, parser.logger)
	}
	objs, err := loader.Load(ctx, RouteRelations)
	if err != nil {
		return nil, errors.Wrap(err, "Can't load OSM data")
	}

	if parser.verbose {
		parser.logger.Printf("Extracting stations...")
	}
	st := time.Now()
	stations, err := ExtractStations(objs)
	if err != nil {
		return nil, errors.Wrap(err, "Can't extract stations")
	}
	if parser.verbose {
		parser.logger.Printf("Done in %v\n\tStations: %d\n", time.Since(st), len(stations))
	}

	if parser.verbose {
		parser.logger.Printf("Reconstructing lines...")
	}
	st = time.Now()
	lines, err := ReconstructLines(objs, parser.logger)
	if err != nil {
		return nil, errors.Wrap(err, "Can't reconstruct lines")
	}
	if parser.verbose {
		parser.logger.Printf("Done in %v\n\tLines: %d\n", time.Since(st), len(lines))
	}

	doc := AssembleDocument(lines, stations)
	if parser.verbose {
		dangling := doc.DanglingStations()
		if len(dangling) > 0 {
			parser.logger.Printf("[WARNING]: %d stop references do not match any tram stop\n", len(dangling))
		}
	}
	return doc, nil
}

// Export writes document in format guessed by output filename: *.csv or JSON otherwise
func Export(doc *Document, fname string) error {
	if strings.HasSuffix(strings.ToLower(fname), ".csv") {
		return doc.ExportToCSV(fname)
	}
	return doc.ExportToJSON(fname)
}

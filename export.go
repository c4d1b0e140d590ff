package osm2tram

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// writeFileAtomic writes into temporary file next to the target and renames it on success
func writeFileAtomic(fname string, write func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(fname), "."+filepath.Base(fname)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	tmpName := tmp.Name()
	err = write(tmp)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	err = tmp.Close()
	if err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "Can't close file")
	}
	err = os.Rename(tmpName, fname)
	if err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "Can't move file into place")
	}
	return nil
}

// MarshalPretty returns indented JSON document
func (doc *Document) MarshalPretty() ([]byte, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "Could not serialize transport data")
	}
	return b, nil
}

// ExportToJSON writes document as JSON
func (doc *Document) ExportToJSON(fname string) error {
	b, err := doc.MarshalPretty()
	if err != nil {
		return err
	}
	err = writeFileAtomic(fname, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "Could not write output file")
	}
	return nil
}

// ExportToCSV writes lines into 'fname' and stations into 'fname' with '_stations' suffix
func (doc *Document) ExportToCSV(fname string) error {
	base := fname
	if strings.HasSuffix(strings.ToLower(fname), ".csv") {
		base = fname[:len(fname)-len(".csv")]
	}
	fnameLines := base + ".csv"
	fnameStations := base + "_stations.csv"

	stationsCSV, err := doc.prepareStationsCSV()
	if err != nil {
		return errors.Wrap(err, "Can't export stations")
	}
	linesCSV, err := doc.prepareLinesCSV()
	if err != nil {
		return errors.Wrap(err, "Can't export lines")
	}

	err = writeFileAtomic(fnameStations, func(w io.Writer) error {
		_, err := w.Write(stationsCSV)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "Can't write stations")
	}
	err = writeFileAtomic(fnameLines, func(w io.Writer) error {
		_, err := w.Write(linesCSV)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "Can't write lines")
	}
	return nil
}

func (doc *Document) prepareLinesCSV() ([]byte, error) {
	buf := &strings.Builder{}
	writer := csv.NewWriter(buf)
	writer.Comma = ';'

	err := writer.Write([]string{"number", "from", "to", "stations", "geom"})
	if err != nil {
		return nil, errors.Wrap(err, "Can't write header")
	}
	for _, line := range doc.Lines {
		stations := make([]string, len(line.Stations))
		for i, stationID := range line.Stations {
			stations[i] = fmt.Sprintf("%d", stationID)
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", line.Number),
			line.From,
			line.To,
			strings.Join(stations, ","),
			PrepareWKTMultiLinestring(line.Geometry),
		})
		if err != nil {
			return nil, errors.Wrap(err, "Can't write line")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, errors.Wrap(err, "Can't flush lines")
	}
	return []byte(buf.String()), nil
}

func (doc *Document) prepareStationsCSV() ([]byte, error) {
	buf := &strings.Builder{}
	writer := csv.NewWriter(buf)
	writer.Comma = ';'

	err := writer.Write([]string{"id", "name", "longitude", "latitude", "geom"})
	if err != nil {
		return nil, errors.Wrap(err, "Can't write header")
	}
	for _, stationID := range doc.stationIDs() {
		station := doc.Stations[stationID]
		err = writer.Write([]string{
			fmt.Sprintf("%d", station.ID),
			station.Name,
			strconv.FormatFloat(station.Position.Lon(), 'f', -1, 64),
			strconv.FormatFloat(station.Position.Lat(), 'f', -1, 64),
			PrepareWKTPoint(station.Position),
		})
		if err != nil {
			return nil, errors.Wrap(err, "Can't write station")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, errors.Wrap(err, "Can't flush stations")
	}
	return []byte(buf.String()), nil
}

package geometry

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/paulmach/orb/geojson"
)

// ErrUnsupportedFormat is returned when an uploaded file matches no known
// geometry parser. Handlers report it distinctly so the UI can tell the user
// which formats are accepted.
var ErrUnsupportedFormat = errors.New("unsupported geometry format")

// File is one uploaded geometry file: its original name plus raw contents.
type File struct {
	Name string
	Data []byte
}

// Load selects the parser for an uploaded file set and returns normalized
// GeoJSON features. KML and GeoJSON arrive as a single file; shapefiles arrive
// as a set of parts in any order, with the .shp entry identified by extension,
// never by position.
func Load(files []File) ([]*geojson.Feature, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files provided", ErrUnsupportedFormat)
	}

	for _, f := range files {
		if strings.EqualFold(filepath.Ext(f.Name), ".shp") {
			return LoadShapefile(files)
		}
	}

	if len(files) != 1 {
		return nil, fmt.Errorf("%w: multiple files but no .shp entry", ErrUnsupportedFormat)
	}

	f := files[0]
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".kml":
		return ParseKML(bytes.NewReader(f.Data))
	case ".geojson", ".json":
		return ParseGeoJSON(f.Data)
	}

	// No extension hint, sniff the payload.
	trimmed := bytes.TrimLeftFunc(f.Data, unicode.IsSpace)
	switch {
	case bytes.HasPrefix(trimmed, []byte("<")):
		return ParseKML(bytes.NewReader(f.Data))
	case bytes.HasPrefix(trimmed, []byte("{")), bytes.HasPrefix(trimmed, []byte("[")):
		return ParseGeoJSON(f.Data)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Name)
}

// ParseGeoJSON accepts a FeatureCollection, a single Feature, or a bare
// Geometry document and returns the contained features.
func ParseGeoJSON(data []byte) ([]*geojson.Feature, error) {
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil {
		return fc.Features, nil
	}
	if f, err := geojson.UnmarshalFeature(data); err == nil {
		return []*geojson.Feature{f}, nil
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	return []*geojson.Feature{geojson.NewFeature(g.Geometry())}, nil
}

package geometry

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadShapefile assembles the uploaded parts into a temporary directory and
// parses the .shp with its .dbf attribute sidecar. Parts may arrive in any
// order and under any basename; they are renamed onto the .shp's basename so
// the reader finds them.
func LoadShapefile(files []File) ([]*geojson.Feature, error) {
	base := ""
	hasDBF := false
	for _, f := range files {
		switch strings.ToLower(filepath.Ext(f.Name)) {
		case ".shp":
			base = strings.TrimSuffix(filepath.Base(f.Name), filepath.Ext(f.Name))
		case ".dbf":
			hasDBF = true
		}
	}
	if base == "" {
		return nil, fmt.Errorf("%w: shapefile set has no .shp entry", ErrUnsupportedFormat)
	}

	dir, err := os.MkdirTemp("", "shapefile-*")
	if err != nil {
		return nil, fmt.Errorf("stage shapefile: %w", err)
	}
	defer os.RemoveAll(dir)

	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name))
		path := filepath.Join(dir, base+ext)
		if err := os.WriteFile(path, f.Data, 0o600); err != nil {
			return nil, fmt.Errorf("stage %s: %w", f.Name, err)
		}
	}

	reader, err := shp.Open(filepath.Join(dir, base+".shp"))
	if err != nil {
		return nil, fmt.Errorf("open shapefile: %w", err)
	}
	defer reader.Close()

	var fieldNames []string
	if hasDBF {
		for _, f := range reader.Fields() {
			fieldNames = append(fieldNames, f.String())
		}
	}

	var feats []*geojson.Feature
	for reader.Next() {
		n, p := reader.Shape()

		var geometry orb.Geometry
		switch s := p.(type) {
		case *shp.Null:
			continue
		case *shp.Point:
			geometry = orb.Point{s.X, s.Y}
		case *shp.PolyLine:
			geometry = convertPolyLine(s)
		case *shp.Polygon:
			geometry = convertPolygon(s)
		default:
			log.Printf("Skipping unsupported shape type: %T", p)
			continue
		}

		f := geojson.NewFeature(geometry)
		for i, name := range fieldNames {
			f.Properties[name] = reader.ReadAttribute(n, i)
		}
		feats = append(feats, f)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile: %w", err)
	}

	return feats, nil
}

func convertPolyLine(s *shp.PolyLine) orb.MultiLineString {
	var multiline orb.MultiLineString

	for i := 0; i < int(s.NumParts); i++ {
		start := s.Parts[i]
		end := s.NumPoints
		if i < int(s.NumParts)-1 {
			end = s.Parts[i+1]
		}

		var line orb.LineString
		for j := start; j < end; j++ {
			line = append(line, orb.Point{s.Points[j].X, s.Points[j].Y})
		}
		multiline = append(multiline, line)
	}
	return multiline
}

func convertPolygon(s *shp.Polygon) orb.Polygon {
	// All parts become rings of a single polygon; ring winding is preserved
	// as stored in the file.
	var poly orb.Polygon

	for i := 0; i < int(s.NumParts); i++ {
		start := s.Parts[i]
		end := s.NumPoints
		if i < int(s.NumParts)-1 {
			end = s.Parts[i+1]
		}

		var ring orb.Ring
		for j := start; j < end; j++ {
			ring = append(ring, orb.Point{s.Points[j].X, s.Points[j].Y})
		}
		poly = append(poly, ring)
	}
	return poly
}

package geometry_test

import (
	"errors"
	"testing"

	"github.com/FieldTrace/FT-Backend/internal/geometry"
	"github.com/paulmach/orb"
)

// TestLoadGeoJSONFeatureCollection verifies that a FeatureCollection yields one
// feature per member with properties intact.
func TestLoadGeoJSONFeatureCollection(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-86.52, 39.16]}, "properties": {"name": "Hydrant 12"}},
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-86.53, 39.17]}, "properties": {"name": "Hydrant 13"}},
			{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}, "properties": {"name": "Main"}}
		]
	}`)

	feats, err := geometry.Load([]geometry.File{{Name: "hydrants.geojson", Data: data}})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(feats) != 3 {
		t.Fatalf("expected 3 features, got %d", len(feats))
	}
	if feats[0].Properties["name"] != "Hydrant 12" {
		t.Errorf("unexpected properties: %v", feats[0].Properties)
	}
	if _, ok := feats[2].Geometry.(orb.LineString); !ok {
		t.Errorf("expected LineString, got %T", feats[2].Geometry)
	}
}

// TestLoadGeoJSONSingleFeature verifies that a bare Feature document loads as a
// one-element slice.
func TestLoadGeoJSONSingleFeature(t *testing.T) {
	data := []byte(`{"type": "Feature", "geometry": {"type": "Point", "coordinates": [10, 20]}, "properties": {"name": "solo"}}`)

	feats, err := geometry.Load([]geometry.File{{Name: "one.json", Data: data}})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(feats) != 1 || feats[0].Properties["name"] != "solo" {
		t.Fatalf("unexpected result: %+v", feats)
	}
}

// TestLoadGeoJSONBareGeometry verifies that a raw geometry document is wrapped
// into a feature with empty properties.
func TestLoadGeoJSONBareGeometry(t *testing.T) {
	data := []byte(`{"type": "Polygon", "coordinates": [[[0, 0], [4, 0], [4, 4], [0, 4], [0, 0]]]}`)

	feats, err := geometry.Load([]geometry.File{{Name: "area.geojson", Data: data}})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(feats) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(feats))
	}
	poly, ok := feats[0].Geometry.(orb.Polygon)
	if !ok {
		t.Fatalf("expected Polygon, got %T", feats[0].Geometry)
	}
	if len(poly) != 1 || len(poly[0]) != 5 {
		t.Errorf("unexpected ring shape: %v", poly)
	}
	if len(feats[0].Properties) != 0 {
		t.Errorf("expected empty properties, got %v", feats[0].Properties)
	}
}

// TestLoadSniffsContentWithoutExtension verifies that a file with no useful
// extension is still recognized by its leading byte.
func TestLoadSniffsContentWithoutExtension(t *testing.T) {
	data := []byte(`  {"type": "Feature", "geometry": {"type": "Point", "coordinates": [1, 2]}, "properties": {}}`)

	feats, err := geometry.Load([]geometry.File{{Name: "upload", Data: data}})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(feats) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(feats))
	}
}

// TestLoadRejectsUnknownFormat verifies the sentinel error for content that is
// neither KML, GeoJSON, nor a shapefile.
func TestLoadRejectsUnknownFormat(t *testing.T) {
	cases := []struct {
		name  string
		files []geometry.File
	}{
		{"no files", nil},
		{"csv content", []geometry.File{{Name: "data.csv", Data: []byte("a,b\n1,2\n")}}},
		{"multiple files without shp", []geometry.File{
			{Name: "a.geojson", Data: []byte(`{}`)},
			{Name: "b.geojson", Data: []byte(`{}`)},
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := geometry.Load(c.files)
			if !errors.Is(err, geometry.ErrUnsupportedFormat) {
				t.Errorf("expected ErrUnsupportedFormat, got %v", err)
			}
		})
	}
}

// TestLoadMalformedGeoJSON verifies that broken JSON reports an error rather
// than an empty result.
func TestLoadMalformedGeoJSON(t *testing.T) {
	_, err := geometry.Load([]geometry.File{{Name: "broken.geojson", Data: []byte(`{"type": "Feat`)}})
	if err == nil {
		t.Fatal("expected an error for truncated JSON")
	}
}

package geometry_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FieldTrace/FT-Backend/internal/geometry"
	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// writePointShapefile writes a two-point shapefile with a NAME attribute
// column into dir and returns the directory path.
func writePointShapefile(t *testing.T, dir string) {
	t.Helper()

	w, err := shp.Create(filepath.Join(dir, "hydrants.shp"), shp.POINT)
	if err != nil {
		t.Fatalf("shp.Create: %v", err)
	}
	w.SetFields([]shp.Field{shp.StringField("NAME", 25)})

	w.Write(&shp.Point{X: -86.52, Y: 39.16})
	w.WriteAttribute(0, 0, "Hydrant 12")
	w.Write(&shp.Point{X: -86.53, Y: 39.17})
	w.WriteAttribute(1, 0, "Hydrant 13")
	w.Close()
}

func readPart(t *testing.T, dir, name string) geometry.File {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return geometry.File{Name: name, Data: data}
}

// TestLoadShapefilePartsAnyOrder loads a staged shapefile with the .shp part
// listed last to verify parts are matched by extension, not position, and that
// dbf attributes come through as properties.
func TestLoadShapefilePartsAnyOrder(t *testing.T) {
	dir := t.TempDir()
	writePointShapefile(t, dir)

	files := []geometry.File{
		readPart(t, dir, "hydrants.dbf"),
		readPart(t, dir, "hydrants.shx"),
		readPart(t, dir, "hydrants.shp"),
	}

	feats, err := geometry.Load(files)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(feats) != 2 {
		t.Fatalf("expected 2 features, got %d", len(feats))
	}

	p, ok := feats[0].Geometry.(orb.Point)
	if !ok {
		t.Fatalf("expected Point, got %T", feats[0].Geometry)
	}
	if p[0] != -86.52 || p[1] != 39.16 {
		t.Errorf("unexpected coordinates: %v", p)
	}

	name, _ := feats[0].Properties["NAME"].(string)
	if strings.TrimSpace(name) != "Hydrant 12" {
		t.Errorf("expected NAME attribute, got %q", name)
	}
}

// TestLoadShapefileUppercaseExtension verifies extension matching ignores case,
// as zip tools on some platforms upcase member names.
func TestLoadShapefileUppercaseExtension(t *testing.T) {
	dir := t.TempDir()
	writePointShapefile(t, dir)

	shpPart := readPart(t, dir, "hydrants.shp")
	shpPart.Name = "HYDRANTS.SHP"
	shxPart := readPart(t, dir, "hydrants.shx")
	shxPart.Name = "HYDRANTS.SHX"

	feats, err := geometry.Load([]geometry.File{shpPart, shxPart})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(feats) != 2 {
		t.Fatalf("expected 2 features, got %d", len(feats))
	}
}

// TestLoadShapefileWithoutDBF verifies geometry still loads when no attribute
// table is supplied, with empty properties.
func TestLoadShapefileWithoutDBF(t *testing.T) {
	dir := t.TempDir()
	writePointShapefile(t, dir)

	files := []geometry.File{
		readPart(t, dir, "hydrants.shp"),
		readPart(t, dir, "hydrants.shx"),
	}

	feats, err := geometry.Load(files)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(feats) != 2 {
		t.Fatalf("expected 2 features, got %d", len(feats))
	}
	if len(feats[0].Properties) != 0 {
		t.Errorf("expected empty properties, got %v", feats[0].Properties)
	}
}

// TestLoadShapefileRequiresShpPart verifies that sidecar files alone report
// the unsupported-format sentinel.
func TestLoadShapefileRequiresShpPart(t *testing.T) {
	dir := t.TempDir()
	writePointShapefile(t, dir)

	_, err := geometry.Load([]geometry.File{
		readPart(t, dir, "hydrants.dbf"),
		readPart(t, dir, "hydrants.shx"),
	})
	if !errors.Is(err, geometry.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

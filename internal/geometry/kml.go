package geometry

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ParseKML is a streaming SAX-style parser covering the KML subset survey
// tools actually export: Placemarks holding a Point, LineString or Polygon,
// with <name>, <description> and ExtendedData (Data/value and SchemaData/
// SimpleData) mapped onto feature properties. Placemarks without a parseable
// geometry are skipped.
func ParseKML(r io.Reader) ([]*geojson.Feature, error) {
	dec := xml.NewDecoder(r)

	var (
		feats       []*geojson.Feature
		inPlacemark bool
		name, desc  string
		props       map[string]interface{}
		geomType    string
		point       *orb.Point
		line        orb.LineString
		poly        orb.Polygon
		dataName    string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse kml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "Placemark":
				inPlacemark = true
				name, desc = "", ""
				props = map[string]interface{}{}
				geomType, point, line, poly = "", nil, nil, nil
			case "name":
				if inPlacemark {
					_ = dec.DecodeElement(&name, &el)
				}
			case "description":
				if inPlacemark {
					_ = dec.DecodeElement(&desc, &el)
				}
			case "Point", "LineString", "Polygon":
				if inPlacemark {
					geomType = el.Name.Local
				}
			case "coordinates":
				if !inPlacemark {
					continue
				}
				var raw string
				_ = dec.DecodeElement(&raw, &el)
				pts := parseCoordinates(raw)
				switch geomType {
				case "Point":
					if len(pts) > 0 {
						p := pts[0]
						point = &p
					}
				case "LineString":
					line = orb.LineString(pts)
				case "Polygon":
					// outer and inner boundaries arrive in document order
					if len(pts) > 0 {
						poly = append(poly, orb.Ring(pts))
					}
				}
			case "Data":
				for _, a := range el.Attr {
					if a.Name.Local == "name" {
						dataName = a.Value
					}
				}
			case "value":
				if inPlacemark && dataName != "" {
					var v string
					_ = dec.DecodeElement(&v, &el)
					props[dataName] = v
					dataName = ""
				}
			case "SimpleData":
				var key string
				for _, a := range el.Attr {
					if a.Name.Local == "name" {
						key = a.Value
					}
				}
				if inPlacemark && key != "" {
					var v string
					_ = dec.DecodeElement(&v, &el)
					props[key] = v
				}
			}
		case xml.EndElement:
			if el.Name.Local != "Placemark" || !inPlacemark {
				continue
			}
			inPlacemark = false

			var geom orb.Geometry
			switch {
			case point != nil:
				geom = *point
			case len(line) > 0:
				geom = line
			case len(poly) > 0:
				geom = poly
			default:
				continue
			}

			f := geojson.NewFeature(geom)
			if name != "" {
				f.Properties["name"] = name
			}
			if desc != "" {
				f.Properties["description"] = desc
			}
			for k, v := range props {
				f.Properties[k] = v
			}
			feats = append(feats, f)
		}
	}

	return feats, nil
}

// parseCoordinates splits a KML coordinates blob ("lon,lat[,alt]" tuples
// separated by whitespace) into points. Malformed tuples are dropped.
func parseCoordinates(raw string) []orb.Point {
	var pts []orb.Point
	for _, tuple := range strings.Fields(raw) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(parts[0], 64)
		lat, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		pts = append(pts, orb.Point{lon, lat})
	}
	return pts
}

package geometry

import (
	"encoding/json"
	"strconv"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/text/unicode/norm"
)

// corruptedLength matches a filler artifact from a buggy upstream exporter:
// certain string attributes arrive as exactly 254 copies of one character.
// The scrub lives behind these named functions so it can be deleted wholesale
// once the exporter is fixed.
const corruptedLength = 254

// IsCorrupted reports whether s is exactly 254 runes of one repeated character.
func IsCorrupted(s string) bool {
	runes := []rune(s)
	if len(runes) != corruptedLength {
		return false
	}
	first := runes[0]
	for _, r := range runes[1:] {
		if r != first {
			return false
		}
	}
	return true
}

// ScrubString replaces a corrupted filler string with the empty string. Every
// other string passes through untouched.
func ScrubString(s string) string {
	if IsCorrupted(s) {
		return ""
	}
	return s
}

// ScrubValue walks one decoded JSON value and scrubs every string in it,
// nested maps and arrays included. The shape of the value never changes, only
// corrupted strings do. Property bags decode to a closed set of variants
// (string, float64, bool, nil, map, slice); anything else passes through.
func ScrubValue(v interface{}) interface{} {
	switch x := v.(type) {
	case string:
		return ScrubString(x)
	case map[string]interface{}:
		for k, e := range x {
			x[k] = ScrubValue(e)
		}
		return x
	case []interface{}:
		for i, e := range x {
			x[i] = ScrubValue(e)
		}
		return x
	default:
		return v
	}
}

// ScrubProperties scrubs every string in a feature's property bag in place.
func ScrubProperties(props geojson.Properties) {
	for k, v := range props {
		props[k] = ScrubValue(v)
	}
}

// DeriveLabel resolves a feature's display label: the value at labelField
// stringified, NFC-normalized so labels from different editors compare equal.
// A missing key yields ""; no fallback text is invented.
func DeriveLabel(props geojson.Properties, labelField string) string {
	v, ok := props[labelField]
	if !ok || v == nil {
		return ""
	}

	var s string
	switch x := v.(type) {
	case string:
		s = x
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		s = strconv.Itoa(x)
	case bool:
		s = strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		s = string(b)
	}

	return norm.NFC.String(s)
}

// NormalizeFeature scrubs the property bag and derives the label in one step.
// Labels are computed once at import and never recomputed.
func NormalizeFeature(f *geojson.Feature, labelField string) string {
	ScrubProperties(f.Properties)
	return DeriveLabel(f.Properties, labelField)
}

// Package vector reads and writes survey line features as GeoJSON.
//
// Features must carry LineString geometries in a projected CRS with meter
// units; reprojection belongs to whatever produced the file.
package vector

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/IrinaTerentieva/DroneFlightPlanner/internal/geo"
)

// Feature is one survey line with its identifier and attributes.
type Feature struct {
	ID         string
	Line       geo.LineString
	Properties map[string]interface{}
}

type featureCollection struct {
	Type     string        `json:"type"`
	Features []jsonFeature `json:"features"`
}

type jsonFeature struct {
	Type       string                 `json:"type"`
	ID         interface{}            `json:"id,omitempty"`
	Geometry   jsonGeometry           `json:"geometry"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

type jsonGeometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// ReadFeatures loads all LineString features from a GeoJSON
// FeatureCollection file.
func ReadFeatures(path string) ([]Feature, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%s: type %q is not a FeatureCollection", path, fc.Type)
	}

	features := make([]Feature, 0, len(fc.Features))
	for i, jf := range fc.Features {
		if jf.Geometry.Type != "LineString" {
			return nil, fmt.Errorf("%s: feature %d has geometry %q, only LineString is supported",
				path, i, jf.Geometry.Type)
		}
		line := make(geo.LineString, 0, len(jf.Geometry.Coordinates))
		for _, c := range jf.Geometry.Coordinates {
			if len(c) < 2 {
				return nil, fmt.Errorf("%s: feature %d has a coordinate with %d values", path, i, len(c))
			}
			line = append(line, geo.Point{X: c[0], Y: c[1]})
		}
		features = append(features, Feature{
			ID:         featureID(jf, i),
			Line:       line,
			Properties: jf.Properties,
		})
	}
	return features, nil
}

func featureID(jf jsonFeature, index int) string {
	switch id := jf.ID.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	if v, ok := jf.Properties["id"]; ok {
		return fmt.Sprintf("%v", v)
	}
	return strconv.Itoa(index)
}

// WriteFeatures writes line features to a GeoJSON FeatureCollection file.
func WriteFeatures(path string, features []Feature) error {
	fc := featureCollection{
		Type:     "FeatureCollection",
		Features: make([]jsonFeature, 0, len(features)),
	}
	for _, f := range features {
		coords := make([][]float64, 0, len(f.Line))
		for _, p := range f.Line {
			coords = append(coords, []float64{p.X, p.Y})
		}
		fc.Features = append(fc.Features, jsonFeature{
			Type:       "Feature",
			ID:         f.ID,
			Geometry:   jsonGeometry{Type: "LineString", Coordinates: coords},
			Properties: f.Properties,
		})
	}

	out, err := json.MarshalIndent(&fc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

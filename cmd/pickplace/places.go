package main

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/banshee-data/pickplace.report/internal/fsutil"
	"github.com/banshee-data/pickplace.report/internal/geom"
)

// placeEntry is one item of a places file. Missing axes default to the
// world X and Y axes.
type placeEntry struct {
	Origin []float64 `yaml:"origin"`
	XAxis  []float64 `yaml:"x_axis"`
	YAxis  []float64 `yaml:"y_axis"`
}

// loadPlaces reads a YAML sequence of place planes, one per shard:
//
//	# places.yaml
//	- origin: [0.5, 0.2, 0]
//	  x_axis: [1, 0, 0]
//	  y_axis: [0, 1, 0]
func loadPlaces(fs fsutil.FileSystem, path string) ([]geom.Plane, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read places file: %w", err)
	}
	return parsePlaces(data)
}

func parsePlaces(data []byte) ([]geom.Plane, error) {
	var entries []placeEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse places file: %w", err)
	}
	planes := make([]geom.Plane, 0, len(entries))
	for i, e := range entries {
		pl, err := e.plane()
		if err != nil {
			return nil, fmt.Errorf("place %d: %w", i, err)
		}
		planes = append(planes, pl)
	}
	return planes, nil
}

func (e placeEntry) plane() (geom.Plane, error) {
	origin, err := vec3("origin", e.Origin, r3.Vec{})
	if err != nil {
		return geom.Plane{}, err
	}
	x, err := vec3("x_axis", e.XAxis, r3.Vec{X: 1})
	if err != nil {
		return geom.Plane{}, err
	}
	y, err := vec3("y_axis", e.YAxis, r3.Vec{Y: 1})
	if err != nil {
		return geom.Plane{}, err
	}

	// Same construction as a plane through origin, origin+x and origin+y.
	pl := geom.PlaneFromPoints(origin, r3.Add(origin, x), r3.Add(origin, y))
	if !pl.IsValid() {
		return geom.Plane{}, fmt.Errorf("x_axis %v and y_axis %v do not span a plane", e.XAxis, e.YAxis)
	}
	return pl, nil
}

func vec3(name string, v []float64, def r3.Vec) (r3.Vec, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
	default:
		return r3.Vec{}, fmt.Errorf("%s needs 3 values, got %d", name, len(v))
	}
}

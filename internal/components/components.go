// Package components binds the scan log codec, the mesh importer and the
// mesh matcher to callers that expect outputs plus a message report rather
// than errors: the pick-and-place tool surface. None of these functions
// panic or return an error; failures are Error messages on the report and
// leave the outputs at their zero values.
package components

import (
	"errors"

	"github.com/banshee-data/pickplace.report/internal/geom"
	"github.com/banshee-data/pickplace.report/internal/mesh"
	"github.com/banshee-data/pickplace.report/internal/meshmatch"
	"github.com/banshee-data/pickplace.report/internal/monitoring"
	"github.com/banshee-data/pickplace.report/internal/scanlog"
	"github.com/banshee-data/pickplace.report/internal/security"
)

// ScanData holds the outputs of ReadScanData.
type ScanData struct {
	GroundPlane geom.Plane
	ShardPlanes []geom.Plane
	PickPlanes  []geom.Plane
	MeshPaths   []string
	Record      *scanlog.ScanRecord
}

// ReadScanData decodes the scan log in folder.
func ReadScanData(codec *scanlog.Codec, folder string) (*ScanData, *monitoring.Report) {
	report := monitoring.NewReport()
	if folder == "" {
		report.Errorf("Work path was not given.")
		return nil, report
	}

	rec, err := codec.Decode(folder)
	if err != nil {
		reportDecodeError(report, codec, folder, err)
		return nil, report
	}

	for _, s := range rec.Shards {
		if err := security.ValidatePathWithinDirectory(s.ResolvedMeshPath, folder); err != nil {
			report.Warnf("Mesh path of %s is outside the work path: %s", s.Key, s.ResolvedMeshPath)
		}
	}
	report.Remarkf("Read %d shards from %s", rec.NumShards(), codec.Path(folder))
	return &ScanData{
		GroundPlane: rec.Ground(),
		ShardPlanes: rec.ShardPlanes(),
		PickPlanes:  rec.PickPlanes(),
		MeshPaths:   rec.MeshPaths(),
		Record:      rec,
	}, report
}

func reportDecodeError(report *monitoring.Report, codec *scanlog.Codec, folder string, err error) {
	if errors.Is(err, scanlog.ErrNotFound) {
		report.Errorf("File not found: %s", codec.Path(folder))
		return
	}
	report.Errorf("%v", err)
}

// PlaceWriter writes place poses into scan logs and remembers the last
// path it saved, which stays the output while the write switch is off.
type PlaceWriter struct {
	Codec *scanlog.Codec
	saved string
}

// NewPlaceWriter returns a writer using codec.
func NewPlaceWriter(codec *scanlog.Codec) *PlaceWriter {
	return &PlaceWriter{Codec: codec}
}

// Saved returns the last path successfully written, or "".
func (w *PlaceWriter) Saved() string {
	return w.saved
}

// Write checks that placePlanes has one plane per shard of the log in
// folder and, when write is true, stores them as place poses. It returns
// the last saved path.
func (w *PlaceWriter) Write(folder string, placePlanes []geom.Plane, write bool) (string, *monitoring.Report) {
	report := monitoring.NewReport()
	if folder == "" {
		report.Errorf("Work path was not given.")
		return w.saved, report
	}
	if placePlanes == nil {
		report.Errorf("Place Planes were not given.")
		return w.saved, report
	}

	rec, err := w.Codec.Validate(folder, len(placePlanes))
	switch {
	case errors.Is(err, scanlog.ErrCountMismatch):
		report.Errorf("Number of place planes does not match number of shards.")
		return w.saved, report
	case err != nil:
		reportDecodeError(report, w.Codec, folder, err)
		return w.saved, report
	}

	if !write {
		report.Warnf("Click the button to write data.")
		return w.saved, report
	}

	path, err := w.Codec.Encode(folder, rec, placePlanes)
	if err != nil {
		report.Errorf("Could not write file: %s: %v", w.Codec.Path(folder), err)
		return w.saved, report
	}
	w.saved = path
	report.Remarkf("Wrote %d place poses to %s", len(placePlanes), path)
	return w.saved, report
}

// WritePickAndPlace is PlaceWriter.Write on a fresh writer.
func WritePickAndPlace(codec *scanlog.Codec, folder string, placePlanes []geom.Plane, write bool) (string, *monitoring.Report) {
	return NewPlaceWriter(codec).Write(folder, placePlanes, write)
}

// MatchMeshTransformation finds the candidate matching target and the
// transform onto it. index is len(candidates) when nothing matches.
func MatchMeshTransformation(matcher *meshmatch.Matcher, candidates []*mesh.Mesh, target *mesh.Mesh) (geom.Transform, int, *monitoring.Report) {
	report := monitoring.NewReport()
	if target == nil {
		report.Errorf("Target mesh was not given.")
		return geom.Identity(), len(candidates), report
	}

	res := matcher.FindMatch(candidates, target)
	if !res.Found {
		report.Remarkf("No candidate matches the target mesh.")
		return res.Transform, res.Index, report
	}
	if v := geom.ValidateTransform(res.Transform); !v.Valid {
		report.Warnf("Sampled vertices %v are degenerate: %v", res.Indices, v.Issues)
	}
	return res.Transform, res.Index, report
}

// ReadMesh loads the mesh at path. An unreadable file is a warning and
// yields a nil mesh.
func ReadMesh(importer *mesh.Importer, path string) (*mesh.Mesh, *monitoring.Report) {
	report := monitoring.NewReport()
	if path == "" {
		report.Errorf("File path was not given.")
		return nil, report
	}

	m, err := importer.Load(path)
	if err != nil {
		report.Warnf("Failed to read mesh file: %s: %v", path, err)
		return nil, report
	}
	return m, report
}

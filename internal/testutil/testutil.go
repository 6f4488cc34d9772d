// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/banshee-data/pickplace.report/internal/fsutil"
)

// SampleLogYAML is a two-shard scan log in the indentation and key order
// the codec writes back, so re-encoding it changes nothing but the place
// blocks. shard_0 sits at (1, 2, 3) with identity orientation.
const SampleLogYAML = `shards:
  num_shards: 2
  ground_plane:
    a: 0
    b: 0
    c: 1
    d: 0
  shard_0:
    plane:
      a: 0
      b: 0
      c: 1
      d: 0
    mesh_path: s0.ply
    pick:
      position:
        x: 1
        y: 2
        z: 3
      quaternion:
        x: 0
        y: 0
        z: 0
        w: 1
  shard_1:
    plane:
      a: 0
      b: 0.7071
      c: 0.7071
      d: -0.5
    mesh_path: meshes/s1.ply
    pick:
      position:
        x: -0.25
        y: 0.5
        z: 0.125
      quaternion:
        x: 0
        y: 0
        z: 0.7071067811865476
        w: 0.7071067811865476
`

// AnnotatedLogYAML is a one-shard log as the scanning pipeline writes it by
// hand: four-space indentation, comments, flow mappings, quoted numbers and
// fields the codec does not model.
const AnnotatedLogYAML = `# scan session 14
session:
    operator: "lab-2"
    started: 2024-05-01T10:00:00Z
shards:
    num_shards: 1
    ground_plane: {a: 0, b: 0, c: 1, d: 0}
    # first fragment
    shard_0:
        plane: {a: "0.1", b: 0, c: 0.99, d: -0.02}
        mesh_path: 'scan 14/s0.ply' # relative to the scan folder
        pick:
            position: {x: 0.4, y: -0.1, z: 0.05}
            quaternion: {x: 0.0, y: 0.0, z: 0.0, w: 1.0}
        confidence: 0.93
        tags: [edge, rim]
`

// TwoTrianglePLY is an ASCII PLY quad split into two coloured triangles.
const TwoTrianglePLY = `ply
format ascii 1.0
comment two triangles
element vertex 4
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
element face 2
property list uchar int vertex_indices
end_header
0 0 0 255 0 0
1 0 0 0 255 0
1 1 0 0 0 255
0 1 0 255 255 255
3 0 1 2
3 0 2 3
`

// QuadPLY stores the same square as one quad face and no colours.
const QuadPLY = `ply
format ascii 1.0
element vertex 4
property double x
property double y
property double z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`

// WriteScanLog stores content as folder/log.yaml in fs and returns the path.
func WriteScanLog(t testing.TB, fs fsutil.FileSystem, folder, content string) string {
	t.Helper()
	path := filepath.Join(folder, "log.yaml")
	if err := fs.MkdirAll(folder, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", folder, err)
	}
	if err := fs.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorIs fails the test unless errors.Is(err, target).
func AssertErrorIs(t testing.TB, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

package mesh

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/banshee-data/pickplace.report/internal/fsutil"
	"github.com/banshee-data/pickplace.report/internal/monitoring"
)

// Importer loads shard meshes from a filesystem.
type Importer struct {
	fs fsutil.FileSystem
}

// NewImporter returns an importer reading through fs, or the OS filesystem
// when fs is nil.
func NewImporter(fs fsutil.FileSystem) *Importer {
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	return &Importer{fs: fs}
}

// SupportedExtensions lists the file extensions Load accepts.
var SupportedExtensions = []string{".ply"}

// Load reads the mesh at path, computes vertex normals and compacts it.
func (im *Importer) Load(path string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".ply" {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(SupportedExtensions, ", "))
	}

	f, err := im.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mesh: %w", err)
	}
	defer f.Close()

	m, err := ReadPLY(f)
	if err != nil {
		return nil, fmt.Errorf("read mesh %s: %w", path, err)
	}
	m.ComputeNormals()
	if removed := m.Compact(); removed > 0 {
		monitoring.Logf("[mesh] %s: dropped %d unused vertices", path, removed)
	}
	monitoring.Logf("[mesh] loaded %s: vertices=%d faces=%d colors=%v",
		path, m.VertexCount(), m.FaceCount(), m.HasColors())
	return m, nil
}

// ImportOrEmpty is Load for callers that treat a bad file as "no mesh": on
// failure it logs and returns an empty mesh together with the error.
func (im *Importer) ImportOrEmpty(path string) (*Mesh, error) {
	m, err := im.Load(path)
	if err != nil {
		monitoring.Logf("[mesh] failed to read mesh file %s: %v", path, err)
		return &Mesh{}, err
	}
	return m, nil
}

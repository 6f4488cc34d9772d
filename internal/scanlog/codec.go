// Package scanlog reads and writes the log.yaml side-car that the scanning
// pipeline leaves next to the shard meshes.
//
// Layout of the document:
//
//	shards:
//	  num_shards: 2
//	  ground_plane: {a: 0, b: 0, c: 1, d: 0}
//	  shard_0:
//	    plane: {a: ..., b: ..., c: ..., d: ...}
//	    mesh_path: s0.ply
//	    pick:
//	      position: {x: ..., y: ..., z: ...}
//	      quaternion: {x: ..., y: ..., z: ..., w: ...}
//	    place:                        # added by Encode
//	      position: {x: ..., y: ..., z: ...}
//	      quaternion: {w: ..., x: ..., y: ..., z: ...}
//
// The pick quaternion is stored x,y,z,w and the place quaternion w,x,y,z.
// Both orders are part of the file format.
package scanlog

import (
	"bytes"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/banshee-data/pickplace.report/internal/fsutil"
	"github.com/banshee-data/pickplace.report/internal/geom"
	"github.com/banshee-data/pickplace.report/internal/monitoring"
)

const (
	// DefaultFileName is the name of the log inside a scan folder.
	DefaultFileName = "log.yaml"

	// DefaultIndent is used when the source indentation cannot be detected.
	DefaultIndent = 2
)

// Codec decodes and encodes scan logs. The zero value is not usable; build
// one with NewCodec.
type Codec struct {
	fs       fsutil.FileSystem
	policy   NumericPolicy
	fileName string
	atomic   bool
	indent   int
}

// Option configures a Codec.
type Option func(*Codec)

// WithFileSystem sets the filesystem the codec reads and writes through.
func WithFileSystem(fs fsutil.FileSystem) Option {
	return func(c *Codec) {
		c.fs = fs
	}
}

// WithNumericPolicy sets how unparsable numeric leaves are handled.
func WithNumericPolicy(p NumericPolicy) Option {
	return func(c *Codec) {
		c.policy = p
	}
}

// WithFileName overrides the log file name.
func WithFileName(name string) Option {
	return func(c *Codec) {
		if name != "" {
			c.fileName = name
		}
	}
}

// WithAtomicWrite makes Encode write a temporary file and rename it over the
// log instead of overwriting the log in place.
func WithAtomicWrite(enabled bool) Option {
	return func(c *Codec) {
		c.atomic = enabled
	}
}

// WithIndent forces the block indentation used by Encode. Zero keeps the
// indentation detected in the source document.
func WithIndent(n int) Option {
	return func(c *Codec) {
		c.indent = n
	}
}

// NewCodec returns a codec on the OS filesystem that reads log.yaml with the
// default-zero numeric policy and overwrites it in place.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		fs:       fsutil.OSFileSystem{},
		policy:   PolicyDefaultZero,
		fileName: DefaultFileName,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the log path inside folder.
func (c *Codec) Path(folder string) string {
	return filepath.Join(folder, c.fileName)
}

// Decode reads the log in folder. Every call parses the file afresh.
func (c *Codec) Decode(folder string) (*ScanRecord, error) {
	path := c.Path(folder)
	data, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: ErrNotFound, Path: path, Err: err}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Kind: ErrMalformedDocument, Path: path, Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, newError(ErrMalformedDocument, path, nil, "empty document")
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, newError(ErrMalformedDocument, path, nil, "document root is not a mapping")
	}

	r := &reader{path: path, policy: c.policy}
	rec, err := r.record(folder, root)
	if err != nil {
		return nil, err
	}
	rec.doc = &doc
	rec.indent = detectIndent(data)

	monitoring.Logf("[scanlog] decoded %d shards from %s", rec.NumShards(), path)
	return rec, nil
}

// Validate decodes the log in folder and checks that it has exactly
// numPlaces shards. Nothing is written.
func (c *Codec) Validate(folder string, numPlaces int) (*ScanRecord, error) {
	rec, err := c.Decode(folder)
	if err != nil {
		return nil, err
	}
	if numPlaces != rec.NumShards() {
		return rec, countMismatch(c.Path(folder), numPlaces, rec.NumShards())
	}
	return rec, nil
}

// Encode adds a place block built from placePlanes[i] to every shard of rec
// and rewrites the whole log in folder. Fields the record does not model
// keep their text, order and comments; blank lines between them are not
// kept. An existing place block is replaced. A shard written as an alias of
// another is expanded into its own copy first. rec itself is not modified.
// The written path is returned.
func (c *Codec) Encode(folder string, rec *ScanRecord, placePlanes []geom.Plane) (string, error) {
	path := c.Path(folder)
	if len(placePlanes) != rec.NumShards() {
		return "", countMismatch(path, len(placePlanes), rec.NumShards())
	}
	if !rec.HasDocument() {
		return "", newError(ErrMalformedDocument, path, nil, "record was not decoded from a document")
	}

	doc := cloneNode(rec.doc)
	shards := child(doc.Content[0], "shards")
	for i, pl := range placePlanes {
		key := rec.Shards[i].Key
		shard := ownChild(shards, key)
		if shard == nil || shard.Kind != yaml.MappingNode {
			return "", newError(ErrMalformedDocument, path, nil, "shards.%s is not a mapping", key)
		}
		setKey(shard, "place", placeNode(pl))
	}

	indent := c.indent
	if indent <= 0 {
		indent = rec.indent
	}
	if indent <= 0 {
		indent = DefaultIndent
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(doc); err != nil {
		return "", &Error{Kind: ErrWriteError, Path: path, Msg: "encode", Err: err}
	}
	if err := enc.Close(); err != nil {
		return "", &Error{Kind: ErrWriteError, Path: path, Msg: "encode", Err: err}
	}

	if err := c.write(path, buf.Bytes()); err != nil {
		return "", err
	}
	monitoring.Logf("[scanlog] wrote %d place poses to %s", len(placePlanes), path)
	return path, nil
}

func (c *Codec) write(path string, data []byte) error {
	if !c.atomic {
		if err := c.fs.WriteFile(path, data, 0644); err != nil {
			return &Error{Kind: ErrWriteError, Path: path, Err: err}
		}
		return nil
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := c.fs.WriteFile(tmp, data, 0644); err != nil {
		_ = c.fs.Remove(tmp)
		return &Error{Kind: ErrWriteError, Path: path, Msg: "write temporary file", Err: err}
	}
	if err := c.fs.Rename(tmp, path); err != nil {
		_ = c.fs.Remove(tmp)
		return &Error{Kind: ErrWriteError, Path: path, Msg: "replace log", Err: err}
	}
	return nil
}

func countMismatch(path string, places, shards int) error {
	return newError(ErrCountMismatch, path, nil, "%d place planes for %d shards", places, shards)
}

// placeNode builds the place block for a plane: its origin and the rotation
// taking WorldXY onto it, quaternion written w first.
func placeNode(pl geom.Plane) *yaml.Node {
	pose := geom.PoseFromPlane(pl)
	p, q := pose.Position, pose.Orientation

	position := newMapping()
	setKey(position, "x", floatNode(p.X))
	setKey(position, "y", floatNode(p.Y))
	setKey(position, "z", floatNode(p.Z))

	quaternion := newMapping()
	setKey(quaternion, "w", floatNode(q.W))
	setKey(quaternion, "x", floatNode(q.X))
	setKey(quaternion, "y", floatNode(q.Y))
	setKey(quaternion, "z", floatNode(q.Z))

	place := newMapping()
	setKey(place, "position", position)
	setKey(place, "quaternion", quaternion)
	return place
}

// reader walks a parsed document and builds a record.
type reader struct {
	path   string
	policy NumericPolicy
}

func (r *reader) malformed(format string, v ...interface{}) error {
	return newError(ErrMalformedDocument, r.path, nil, format, v...)
}

func join(prefix, path string) string {
	if prefix == "" {
		return path
	}
	return prefix + "." + path
}

// lookup follows a dotted path below n.
func (r *reader) lookup(n *yaml.Node, prefix, path string) (*yaml.Node, error) {
	cur := n
	for _, key := range strings.Split(path, ".") {
		next := child(cur, key)
		if next == nil {
			return nil, r.malformed("missing %s", join(prefix, path))
		}
		cur = next
	}
	return cur, nil
}

func (r *reader) mapping(n *yaml.Node, prefix, path string) (*yaml.Node, error) {
	m, err := r.lookup(n, prefix, path)
	if err != nil {
		return nil, err
	}
	if m.Kind != yaml.MappingNode {
		return nil, r.malformed("%s is not a mapping", join(prefix, path))
	}
	return m, nil
}

func (r *reader) scalar(n *yaml.Node, prefix, path string) (*yaml.Node, error) {
	leaf, err := r.lookup(n, prefix, path)
	if err != nil {
		return nil, err
	}
	if leaf.Kind != yaml.ScalarNode {
		return nil, r.malformed("%s is not a scalar", join(prefix, path))
	}
	return leaf, nil
}

func (r *reader) number(n *yaml.Node, prefix, path string) (float64, error) {
	leaf, err := r.scalar(n, prefix, path)
	if err != nil {
		return 0, err
	}
	v, ok := parseFloat(leaf)
	if !ok {
		return 0, r.unparsable(leaf, join(prefix, path))
	}
	return v, nil
}

func (r *reader) integer(n *yaml.Node, prefix, path string) (int, error) {
	leaf, err := r.scalar(n, prefix, path)
	if err != nil {
		return 0, err
	}
	v, ok := parseInt(leaf)
	if !ok {
		return 0, r.unparsable(leaf, join(prefix, path))
	}
	return v, nil
}

func (r *reader) unparsable(leaf *yaml.Node, path string) error {
	if r.policy == PolicyStrict {
		return r.malformed("%s: %q is not a number", path, leaf.Value)
	}
	monitoring.Logf("[scanlog] %s: %s=%q is not a number, using 0", r.path, path, leaf.Value)
	return nil
}

// vec reads the leaves keys below rel, a dotted path relative to n.
func (r *reader) vec(n *yaml.Node, prefix, rel string, keys ...string) ([]float64, error) {
	out := make([]float64, len(keys))
	for i, k := range keys {
		v, err := r.number(n, prefix, rel+"."+k)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (r *reader) plane(n *yaml.Node, prefix, rel string) (geom.PlaneEquation, error) {
	v, err := r.vec(n, prefix, rel, "a", "b", "c", "d")
	if err != nil {
		return geom.PlaneEquation{}, err
	}
	return geom.PlaneEquation{A: v[0], B: v[1], C: v[2], D: v[3]}, nil
}

func (r *reader) record(folder string, root *yaml.Node) (*ScanRecord, error) {
	shards, err := r.mapping(root, "", "shards")
	if err != nil {
		return nil, err
	}
	numShards, err := r.integer(shards, "shards", "num_shards")
	if err != nil {
		return nil, err
	}
	if numShards < 0 {
		return nil, r.malformed("shards.num_shards is negative (%d)", numShards)
	}
	ground, err := r.plane(shards, "shards", "ground_plane")
	if err != nil {
		return nil, err
	}
	if err := r.checkShardKeys(shards, numShards); err != nil {
		return nil, err
	}

	rec := &ScanRecord{
		Folder:      folder,
		GroundPlane: ground,
		Shards:      make([]ShardRecord, numShards),
	}
	for i := 0; i < numShards; i++ {
		shard, err := r.shard(folder, shards, i)
		if err != nil {
			return nil, err
		}
		rec.Shards[i] = shard
	}
	return rec, nil
}

// checkShardKeys requires the shard_<i> keys to be exactly shard_0 through
// shard_<n-1>, each present once.
func (r *reader) checkShardKeys(shards *yaml.Node, n int) error {
	var indices []int
	seen := make(map[int]bool)
	for i := 0; i+1 < len(shards.Content); i += 2 {
		suffix, ok := strings.CutPrefix(shards.Content[i].Value, "shard_")
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(suffix)
		if err != nil || idx < 0 || strconv.Itoa(idx) != suffix {
			continue
		}
		if seen[idx] {
			return r.malformed("duplicate key shards.%s", ShardKey(idx))
		}
		seen[idx] = true
		indices = append(indices, idx)
	}
	if len(indices) != n {
		return r.malformed("shards.num_shards is %d but %d shard entries are present", n, len(indices))
	}
	sort.Ints(indices)
	for i, idx := range indices {
		if idx != i {
			return r.malformed("shard keys are not contiguous: missing shards.%s", ShardKey(i))
		}
	}
	return nil
}

func (r *reader) shard(folder string, shards *yaml.Node, i int) (ShardRecord, error) {
	key := ShardKey(i)
	prefix := "shards." + key
	node, err := r.mapping(shards, "shards", key)
	if err != nil {
		return ShardRecord{}, err
	}

	plane, err := r.plane(node, prefix, "plane")
	if err != nil {
		return ShardRecord{}, err
	}
	pos, err := r.vec(node, prefix, "pick.position", "x", "y", "z")
	if err != nil {
		return ShardRecord{}, err
	}
	q, err := r.vec(node, prefix, "pick.quaternion", "x", "y", "z", "w")
	if err != nil {
		return ShardRecord{}, err
	}
	meshLeaf, err := r.scalar(node, prefix, "mesh_path")
	if err != nil {
		return ShardRecord{}, err
	}

	pose := geom.Pose{
		Position:    r3.Vec{X: pos[0], Y: pos[1], Z: pos[2]},
		Orientation: geom.Quaternion{X: q[0], Y: q[1], Z: q[2], W: q[3]},
	}
	rel := meshLeaf.Value
	resolved := rel
	if !filepath.IsAbs(rel) {
		resolved = filepath.Join(folder, rel)
	}

	return ShardRecord{
		Index:            i,
		Key:              key,
		Plane:            plane,
		PickPose:         pose,
		PickPlane:        pose.Plane(),
		MeshPath:         rel,
		ResolvedMeshPath: resolved,
	}, nil
}

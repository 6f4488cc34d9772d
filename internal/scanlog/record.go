package scanlog

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/pickplace.report/internal/geom"
)

// ShardKey returns the document key of shard i.
func ShardKey(i int) string {
	return "shard_" + strconv.Itoa(i)
}

// ShardRecord is one scanned fragment.
type ShardRecord struct {
	Index int
	Key   string

	// Plane is the shard's fitted plane as stored in the log.
	Plane geom.PlaneEquation

	// PickPose is the gripper pose read from pick.position and
	// pick.quaternion; PickPlane is WorldXY placed at that pose.
	PickPose  geom.Pose
	PickPlane geom.Plane

	// MeshPath is the path text stored in the log, relative to the scan
	// folder. ResolvedMeshPath is ready to open.
	MeshPath         string
	ResolvedMeshPath string
}

// ScanRecord is the decoded content of one log.yaml. It keeps the parsed
// document so that Encode can rewrite the file without losing fields the
// record does not model.
type ScanRecord struct {
	Folder      string
	GroundPlane geom.PlaneEquation
	Shards      []ShardRecord

	doc    *yaml.Node
	indent int
}

// NumShards returns the number of shards in the record.
func (r *ScanRecord) NumShards() int {
	if r == nil {
		return 0
	}
	return len(r.Shards)
}

// Ground returns the ground plane as a frame.
func (r *ScanRecord) Ground() geom.Plane {
	return r.GroundPlane.Plane()
}

// ShardPlanes returns every shard plane as a frame, in shard order.
func (r *ScanRecord) ShardPlanes() []geom.Plane {
	out := make([]geom.Plane, len(r.Shards))
	for i, s := range r.Shards {
		out[i] = s.Plane.Plane()
	}
	return out
}

// PickPlanes returns the pick plane of every shard, in shard order.
func (r *ScanRecord) PickPlanes() []geom.Plane {
	out := make([]geom.Plane, len(r.Shards))
	for i, s := range r.Shards {
		out[i] = s.PickPlane
	}
	return out
}

// MeshPaths returns the resolved mesh path of every shard, in shard order.
func (r *ScanRecord) MeshPaths() []string {
	out := make([]string, len(r.Shards))
	for i, s := range r.Shards {
		out[i] = s.ResolvedMeshPath
	}
	return out
}

// HasDocument reports whether the record carries the parsed source document
// needed by Encode.
func (r *ScanRecord) HasDocument() bool {
	return r != nil && r.doc != nil
}

// String summarises the record for logs.
func (r *ScanRecord) String() string {
	return fmt.Sprintf("ScanRecord{folder=%s shards=%d}", r.Folder, r.NumShards())
}

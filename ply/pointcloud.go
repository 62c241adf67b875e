package ply

import (
	"github.com/seqsense/pcgol/mat"

	"github.com/seqsense/plyloader/ply/internal/float"
)

// PointCloud is the immutable result of a load.
// Positions and colors always have the same length.
type PointCloud struct {
	header    *Header
	offset    mat.Vec3
	positions []PointXYZW
	colors    []PointXYZW
}

// VertexCount returns the number of vertices.
func (pc *PointCloud) VertexCount() int {
	return len(pc.positions)
}

// Len is an alias of VertexCount.
func (pc *PointCloud) Len() int {
	return len(pc.positions)
}

// Position returns the i-th centered position.
func (pc *PointCloud) Position(i int) PointXYZW {
	return pc.positions[i]
}

// Color returns the i-th normalized color.
func (pc *PointCloud) Color(i int) PointXYZW {
	return pc.colors[i]
}

// Vec3At returns the i-th position as a vector.
func (pc *PointCloud) Vec3At(i int) mat.Vec3 {
	return pc.positions[i].Vec3()
}

// Positions returns a copy of the position buffer.
func (pc *PointCloud) Positions() []PointXYZW {
	return clonePoints(pc.positions)
}

// Colors returns a copy of the color buffer.
func (pc *PointCloud) Colors() []PointXYZW {
	return clonePoints(pc.colors)
}

// PositionBytes returns the positions as packed float32 XYZW values in host
// byte order.
func (pc *PointCloud) PositionBytes() []byte {
	return float.AsByteSlice(clonePoints(pc.positions))
}

// ColorBytes returns the colors as packed float32 RGBA values in host byte
// order.
func (pc *PointCloud) ColorBytes() []byte {
	return float.AsByteSlice(clonePoints(pc.colors))
}

// Offset returns the raw coordinates of the first vertex, which were
// subtracted from every position.
func (pc *PointCloud) Offset() mat.Vec3 {
	return pc.offset
}

// Header returns a copy of the parsed header, or nil if no file was parsed.
func (pc *PointCloud) Header() *Header {
	return pc.header.Clone()
}

func clonePoints(p []PointXYZW) []PointXYZW {
	out := make([]PointXYZW, len(p))
	copy(out, p)
	return out
}

// Package pcd exports loaded PLY point clouds as PCD data.
package pcd

import (
	"errors"
	"fmt"
	"math"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
	"github.com/seqsense/pcgol/pc/filter/voxelgrid"

	"github.com/seqsense/plyloader/ply"
)

var errNoPoints = errors.New("point cloud has no points")

// FromPLY converts src to a PCD point cloud with x, y, z and packed rgba fields.
func FromPLY(src *ply.PointCloud) (*pc.PointCloud, error) {
	n := src.VertexCount()
	pp := &pc.PointCloud{
		PointCloudHeader: pc.PointCloudHeader{
			Version:   0.7,
			Fields:    []string{"x", "y", "z", "rgba"},
			Size:      []int{4, 4, 4, 4},
			Type:      []string{"F", "F", "F", "U"},
			Count:     []int{1, 1, 1, 1},
			Width:     n,
			Height:    1,
			Viewpoint: []float32{0, 0, 0, 1, 0, 0, 0},
		},
		Points: n,
	}
	pp.Data = make([]byte, n*pp.Stride())
	if n == 0 {
		return pp, nil
	}

	it, err := pp.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	itC, err := pp.Uint32Iterator("rgba")
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		it.SetVec3(src.Vec3At(i))
		itC.SetUint32(PackRGBA(src.Color(i)))
		it.Incr()
		itC.Incr()
	}
	return pp, nil
}

// PackRGBA packs a normalized color as 0xAARRGGBB.
func PackRGBA(c ply.PointXYZW) uint32 {
	return uint32(channel(c.W))<<24 |
		uint32(channel(c.X))<<16 |
		uint32(channel(c.Y))<<8 |
		uint32(channel(c.Z))
}

func channel(v float32) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 1:
		return 255
	}
	return uint8(math.Round(float64(v) * 255))
}

// Downsample averages points in cubic voxels of the given edge length.
func Downsample(pp *pc.PointCloud, resolution float32) (*pc.PointCloud, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("invalid voxel resolution %f", resolution)
	}
	if pp.Points == 0 {
		return pp, nil
	}
	vg := voxelgrid.New(mat.Vec3{resolution, resolution, resolution})
	return vg.Filter(pp)
}

// Bounds returns the axis aligned bounding box of pp.
func Bounds(pp *pc.PointCloud) (mat.Vec3, mat.Vec3, error) {
	if pp.Points == 0 {
		return mat.Vec3{}, mat.Vec3{}, errNoPoints
	}
	it, err := pp.Vec3Iterator()
	if err != nil {
		return mat.Vec3{}, mat.Vec3{}, err
	}
	return pc.MinMaxVec3(it)
}

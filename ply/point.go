package ply

import (
	"github.com/seqsense/pcgol/mat"
)

// PointXYZW is a four component tuple used for both positions and colors.
// As a color, X, Y, Z and W are red, green, blue and alpha.
type PointXYZW struct {
	X, Y, Z, W float32
}

// Vec3 returns the first three components.
func (p PointXYZW) Vec3() mat.Vec3 {
	return mat.Vec3{p.X, p.Y, p.Z}
}

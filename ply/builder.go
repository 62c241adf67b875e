package ply

import (
	"github.com/seqsense/pcgol/mat"
)

// normalizeChannel maps a 0-255 channel value to 0-1.
// Values 0 and 1 are taken as already normalized and returned as is, so a raw
// 1 on the 0-255 scale cannot be told apart from full intensity.
func normalizeChannel(v uint8) float32 {
	if v > 1 {
		return float32(v) / 255
	}
	return float32(v)
}

// buildPointCloud centers positions on the first vertex and normalizes colors.
func buildPointCloud(h *Header, raw []rawVertex) *PointCloud {
	pc := &PointCloud{
		header:    h,
		positions: make([]PointXYZW, len(raw)),
		colors:    make([]PointXYZW, len(raw)),
	}
	if len(raw) == 0 {
		return pc
	}

	first := raw[0].position
	pc.offset = mat.Vec3{first.X, first.Y, first.Z}

	for i, v := range raw {
		pc.positions[i] = PointXYZW{
			X: v.position.X - pc.offset[0],
			Y: v.position.Y - pc.offset[1],
			Z: v.position.Z - pc.offset[2],
			W: v.position.W,
		}
		pc.colors[i] = PointXYZW{
			X: normalizeChannel(v.color[0]),
			Y: normalizeChannel(v.color[1]),
			Z: normalizeChannel(v.color[2]),
			W: normalizeChannel(v.color[3]),
		}
	}
	return pc
}

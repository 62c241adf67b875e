// Package stats summarizes loaded point clouds.
package stats

import (
	"fmt"
	"io"

	"github.com/seqsense/pcgol/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/seqsense/plyloader/pcd"
	"github.com/seqsense/plyloader/ply"
)

// Channel is the distribution of one color channel over all vertices.
type Channel struct {
	Mean   float64
	StdDev float64
}

// Summary describes a point cloud.
type Summary struct {
	Vertices int
	Faces    int
	Offset   mat.Vec3
	Min, Max mat.Vec3
	// Red, Green, Blue and Alpha are computed on normalized colors.
	Red, Green, Blue, Alpha Channel
}

// Summarize computes the Summary of pp.
func Summarize(pp *ply.PointCloud) (*Summary, error) {
	s := &Summary{
		Vertices: pp.VertexCount(),
		Offset:   pp.Offset(),
	}
	if h := pp.Header(); h != nil {
		s.Faces = h.FaceCount()
	}
	if s.Vertices == 0 {
		return s, nil
	}

	p, err := pcd.FromPLY(pp)
	if err != nil {
		return nil, err
	}
	if s.Min, s.Max, err = pcd.Bounds(p); err != nil {
		return nil, err
	}

	var r, g, b, a []float64
	for _, c := range pp.Colors() {
		r = append(r, float64(c.X))
		g = append(g, float64(c.Y))
		b = append(b, float64(c.Z))
		a = append(a, float64(c.W))
	}
	s.Red = channel(r)
	s.Green = channel(g)
	s.Blue = channel(b)
	s.Alpha = channel(a)
	return s, nil
}

func channel(v []float64) Channel {
	if len(v) < 2 {
		return Channel{Mean: stat.Mean(v, nil)}
	}
	m, sd := stat.MeanStdDev(v, nil)
	return Channel{Mean: m, StdDev: sd}
}

// Fprint writes s in a human readable form.
func (s *Summary) Fprint(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"vertices: %d\nfaces: %d\noffset: %v\nmin: %v\nmax: %v\n"+
			"red: %.4f ± %.4f\ngreen: %.4f ± %.4f\nblue: %.4f ± %.4f\nalpha: %.4f ± %.4f\n",
		s.Vertices, s.Faces, s.Offset, s.Min, s.Max,
		s.Red.Mean, s.Red.StdDev,
		s.Green.Mean, s.Green.StdDev,
		s.Blue.Mean, s.Blue.StdDev,
		s.Alpha.Mean, s.Alpha.StdDev,
	)
	return err
}

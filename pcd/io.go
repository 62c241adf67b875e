package pcd

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/seqsense/pcgol/pc"
	"github.com/zhuyie/golzf"
)

type Format int

const (
	Binary Format = iota
	BinaryCompressed
)

func (f Format) String() string {
	switch f {
	case Binary:
		return "binary"
	case BinaryCompressed:
		return "binary_compressed"
	}
	return "unknown"
}

// ParseFormat returns the Format named as in the PCD DATA line.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "binary":
		return Binary, nil
	case "binary_compressed":
		return BinaryCompressed, nil
	}
	return 0, fmt.Errorf("unknown data format %q", s)
}

// Write encodes pp to w.
func Write(w io.Writer, pp *pc.PointCloud, f Format) error {
	switch f {
	case Binary:
		return pc.Marshal(pp, w)
	case BinaryCompressed:
		return writeCompressed(w, pp)
	}
	return errors.New("unknown data format")
}

func writeCompressed(w io.Writer, pp *pc.PointCloud) error {
	if len(pp.Fields) != len(pp.Size) || len(pp.Fields) != len(pp.Type) || len(pp.Fields) != len(pp.Count) {
		return errors.New("header field size is wrong")
	}
	stride := pp.Stride()
	if len(pp.Data) < stride*pp.Points {
		return errors.New("data is shorter than points")
	}

	// Reorder to field major layout.
	dec := make([]byte, stride*pp.Points)
	var head, off int
	for i := range pp.Fields {
		size := pp.Size[i] * pp.Count[i]
		for p := 0; p < pp.Points; p++ {
			from := p*stride + off
			to := head + p*size
			copy(dec[to:to+size], pp.Data[from:from+size])
		}
		head += size * pp.Points
		off += size
	}

	var comp []byte
	if len(dec) > 0 {
		comp = make([]byte, len(dec)+len(dec)/16+64)
		n, err := lzf.Compress(dec, comp)
		if err != nil {
			return err
		}
		comp = comp[:n]
	}

	bw := bufio.NewWriter(w)
	writeHeader(bw, pp, BinaryCompressed)
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(comp))); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(dec))); err != nil {
		return err
	}
	if _, err := bw.Write(comp); err != nil {
		return err
	}
	return bw.Flush()
}

func writeHeader(w *bufio.Writer, pp *pc.PointCloud, f Format) {
	ints := func(v []int) string {
		s := make([]string, len(v))
		for i := range v {
			s[i] = strconv.Itoa(v[i])
		}
		return strings.Join(s, " ")
	}
	floats := func(v []float32) string {
		s := make([]string, len(v))
		for i := range v {
			s[i] = strconv.FormatFloat(float64(v[i]), 'g', -1, 32)
		}
		return strings.Join(s, " ")
	}
	viewpoint := pp.Viewpoint
	if len(viewpoint) == 0 {
		viewpoint = []float32{0, 0, 0, 1, 0, 0, 0}
	}

	fmt.Fprintln(w, "# .PCD v0.7 - Point Cloud Data file format")
	fmt.Fprintf(w, "VERSION %s\n", strconv.FormatFloat(float64(pp.Version), 'f', 1, 32))
	fmt.Fprintf(w, "FIELDS %s\n", strings.Join(pp.Fields, " "))
	fmt.Fprintf(w, "SIZE %s\n", ints(pp.Size))
	fmt.Fprintf(w, "TYPE %s\n", strings.Join(pp.Type, " "))
	fmt.Fprintf(w, "COUNT %s\n", ints(pp.Count))
	fmt.Fprintf(w, "WIDTH %d\n", pp.Width)
	fmt.Fprintf(w, "HEIGHT %d\n", pp.Height)
	fmt.Fprintf(w, "VIEWPOINT %s\n", floats(viewpoint))
	fmt.Fprintf(w, "POINTS %d\n", pp.Points)
	fmt.Fprintf(w, "DATA %s\n", f)
}

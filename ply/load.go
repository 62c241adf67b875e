package ply

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Extension is the required suffix of files passed to Load.
const Extension = ".ply"

// maxPrealloc bounds the vertex buffer reserved from an unverified count.
const maxPrealloc = 1 << 16

// Result is the outcome of LoadAsync.
type Result struct {
	Cloud *PointCloud
	Err   error
}

// Load reads the PLY file at path.
//
// A path without the .ply suffix is not an error: it is logged and an empty
// PointCloud is returned. Malformed headers, unsupported property types and
// truncated payloads are returned as errors and no PointCloud is produced.
func Load(path string, opts ...Option) (*PointCloud, error) {
	o := newOptions(opts)
	log := o.logger.With("path", path)
	log.Info("start loading point cloud")

	if !strings.HasSuffix(path, Extension) {
		log.Error("invalid point cloud file type", "expected", Extension)
		return &PointCloud{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		log.Error("failed to open point cloud", "error", err)
		return nil, err
	}
	defer f.Close()

	size := int64(-1)
	if st, err := f.Stat(); err == nil && st.Mode().IsRegular() {
		size = st.Size()
	}

	pc, err := decode(f, size, log)
	if err != nil {
		log.Error("failed to load point cloud", "error", err)
		return nil, err
	}
	log.Info("done loading point cloud", "vertices", pc.VertexCount())
	return pc, nil
}

// LoadAsync runs Load in a new goroutine.
// Exactly one Result is sent on the returned channel, which is then closed.
func LoadAsync(path string, opts ...Option) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		pc, err := Load(path, opts...)
		ch <- Result{Cloud: pc, Err: err}
	}()
	return ch
}

// Decode reads a PLY stream from r.
func Decode(r io.Reader, opts ...Option) (*PointCloud, error) {
	o := newOptions(opts)
	return decode(r, -1, o.logger)
}

// decode parses the header and the vertex payload.
// size is the total stream length if known, or negative.
func decode(r io.Reader, size int64, log *slog.Logger) (*PointCloud, error) {
	rb := bufio.NewReader(r)
	h, err := ParseHeader(rb)
	if err != nil {
		return nil, err
	}
	log.Debug("parsed header",
		"format", h.Format.String(),
		"vertices", h.VertexCount(),
		"faces", h.FaceCount(),
		"offset", h.Offset,
	)

	vertex, idx := h.Element("vertex")
	if vertex == nil || vertex.Count == 0 {
		return buildPointCloud(h, nil), nil
	}
	order, err := h.Format.byteOrder()
	if err != nil {
		return nil, err
	}

	// Records of elements declared before vertex precede the vertex records.
	layouts := make([]*recordLayout, idx+1)
	for i := 0; i <= idx; i++ {
		if layouts[i], err = newRecordLayout(&h.Elements[i]); err != nil {
			return nil, err
		}
	}

	d := newBodyDecoder(rb, order)
	for i := 0; i < idx; i++ {
		if err := d.skipElement(&h.Elements[i], layouts[i]); err != nil {
			return nil, err
		}
	}

	l := layouts[idx]
	prealloc := min(vertex.Count, maxPrealloc)
	if size >= 0 && l.stride > 0 {
		remaining := size - h.Offset - d.consumed
		if need := int64(vertex.Count) * int64(l.stride); need > remaining {
			return nil, fmt.Errorf("%w: %d vertices need %d bytes, %d available",
				ErrTruncatedBody, vertex.Count, need, remaining)
		}
		prealloc = vertex.Count
	}

	raw, err := d.decodeVertices(vertex.Count, prealloc, l)
	if err != nil {
		return nil, err
	}
	return buildPointCloud(h, raw), nil
}

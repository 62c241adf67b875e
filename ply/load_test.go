package ply

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/seqsense/plyloader/ply/internal/float"
)

func TestLoad(t *testing.T) {
	path := writeFile(t, "cloud.ply", xyzrgbData(t))

	pc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	expectedPositions := []PointXYZW{
		{0, 0, 0, 1},
		{1, 2, 3, 1},
	}
	expectedColors := []PointXYZW{
		{float32(10) / 255, 0, 0, 0},
		{1, float32(128) / 255, float32(64) / 255, 0},
	}
	if n := pc.VertexCount(); n != 2 {
		t.Fatalf("Expected 2 vertices, got %d", n)
	}
	if diff := cmp.Diff(expectedPositions, pc.Positions()); diff != "" {
		t.Errorf("Positions mismatch (-expected +got):\n%s", diff)
	}
	if diff := cmp.Diff(expectedColors, pc.Colors()); diff != "" {
		t.Errorf("Colors mismatch (-expected +got):\n%s", diff)
	}
	if h := pc.Header(); h == nil || h.VertexCount() != 2 {
		t.Errorf("Expected header with 2 vertices, got %+v", h)
	}
}

func TestLoad_Idempotent(t *testing.T) {
	path := writeFile(t, "cloud.ply", plyData(t, binary.LittleEndian, xyzrgbHeader,
		float32(1.5), float32(-2.25), float32(1e6), uint8(1), uint8(2), uint8(3),
		float32(0.1), float32(0.2), float32(0.3), uint8(4), uint8(5), uint8(6),
	))

	pc0, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	pc1, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pc0.PositionBytes(), pc1.PositionBytes()) {
		t.Error("Positions differ between loads")
	}
	if !bytes.Equal(pc0.ColorBytes(), pc1.ColorBytes()) {
		t.Error("Colors differ between loads")
	}
}

func TestLoad_InvalidExtension(t *testing.T) {
	for _, name := range []string{"cloud.txt", "cloud.PLY", "cloud.ply.bak", "cloud"} {
		name := name
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, xyzrgbData(t))
			pc, err := Load(path)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if pc.VertexCount() != 0 || len(pc.Positions()) != 0 || len(pc.Colors()) != 0 {
				t.Errorf("Expected empty point cloud, got %d vertices", pc.VertexCount())
			}
			if pc.Header() != nil {
				t.Error("Expected no header")
			}
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	if _, err := Load(t.TempDir() + "/missing.ply"); err == nil {
		t.Error("Expected error")
	}
}

func TestLoad_Truncated(t *testing.T) {
	data := xyzrgbData(t)
	for name, n := range map[string]int{
		"PartialRecord": 3,
		"MissingRecord": 15,
		"NoBody":        30,
	} {
		n := n
		short := data[:len(data)-n]
		t.Run(name, func(t *testing.T) {
			t.Run("Load", func(t *testing.T) {
				pc, err := Load(writeFile(t, "cloud.ply", short))
				if !errors.Is(err, ErrTruncatedBody) {
					t.Errorf("Expected ErrTruncatedBody, got %v", err)
				}
				if pc != nil {
					t.Error("Expected no point cloud")
				}
			})
			t.Run("Decode", func(t *testing.T) {
				pc, err := Decode(bytes.NewReader(short))
				if !errors.Is(err, ErrTruncatedBody) {
					t.Errorf("Expected ErrTruncatedBody, got %v", err)
				}
				if pc != nil {
					t.Error("Expected no point cloud")
				}
			})
		})
	}
}

func TestLoad_MalformedHeader(t *testing.T) {
	path := writeFile(t, "cloud.ply", []byte("ply\nelement vertex two\nend_header\n"))
	if _, err := Load(path); !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("Expected ErrMalformedHeader, got %v", err)
	}
}

func TestLoadAsync(t *testing.T) {
	path := writeFile(t, "cloud.ply", xyzrgbData(t))

	ch := LoadAsync(path)
	res, ok := <-ch
	if !ok {
		t.Fatal("Result channel closed without result")
	}
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if n := res.Cloud.VertexCount(); n != 2 {
		t.Errorf("Expected 2 vertices, got %d", n)
	}
	if _, ok := <-ch; ok {
		t.Error("Expected channel to be closed after the result")
	}
}

func TestLoad_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := Load("cloud.txt", WithLogger(logger)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "invalid point cloud file type") {
		t.Errorf("Expected invalid file type message, got %q", buf.String())
	}

	buf.Reset()
	if _, err := Load(writeFile(t, "cloud.ply", xyzrgbData(t)), WithLogger(logger)); err != nil {
		t.Fatal(err)
	}
	for _, msg := range []string{"start loading point cloud", "parsed header", "done loading point cloud"} {
		if !strings.Contains(buf.String(), msg) {
			t.Errorf("Expected %q in log, got %q", msg, buf.String())
		}
	}
}

func TestPointCloud_Bytes(t *testing.T) {
	pc, err := Decode(bytes.NewReader(xyzrgbData(t)))
	if err != nil {
		t.Fatal(err)
	}

	pos := float.ByteSliceAsFloat32Slice(pc.PositionBytes())
	if diff := cmp.Diff([]float32{0, 0, 0, 1, 1, 2, 3, 1}, pos); diff != "" {
		t.Errorf("Position buffer mismatch (-expected +got):\n%s", diff)
	}
	col := float.ByteSliceAsFloat32Slice(pc.ColorBytes())
	if len(col) != 8 {
		t.Fatalf("Expected 8 color values, got %d", len(col))
	}
	if col[4] != 1 {
		t.Errorf("Expected red of vertex 1 to be 1, got %f", col[4])
	}

	b := pc.PositionBytes()
	if !float.IsShadowing(b, float.ByteSliceAsFloat32Slice(float.AsByteSlice(pc.positions))) {
		t.Error("Position buffer must not share memory with the point cloud")
	}
}

func TestPointCloud_Immutable(t *testing.T) {
	pc, err := Decode(bytes.NewReader(xyzrgbData(t)))
	if err != nil {
		t.Fatal(err)
	}
	p := pc.Positions()
	p[1].X = 100
	if v := pc.Position(1).X; v != 1 {
		t.Errorf("Point cloud must not be modified through a returned slice, got x=%f", v)
	}

	h := pc.Header()
	h.Elements[0].Count = 99
	h.Elements[0].Properties[0].Name = "mutated"
	h.VertexProperties()[1].Name = "mutated"
	if n := pc.Header().VertexCount(); n != 2 {
		t.Errorf("Point cloud must not be modified through its header, got %d vertices", n)
	}
	props := pc.Header().VertexProperties()
	if props[0].Name != "x" || props[1].Name != "y" {
		t.Errorf("Point cloud must not be modified through its header, got %v", props[:2])
	}
}

func TestLoadAsync_Concurrent(t *testing.T) {
	const n = 8
	paths := make([]string, n)
	for i := range paths {
		x := float32(i)
		data := plyData(t, binary.LittleEndian, xyzrgbHeader,
			x, float32(0), float32(0), uint8(10), uint8(0), uint8(0),
			x+1, float32(2), float32(3), uint8(255), uint8(128), uint8(64),
		)
		paths[i] = writeFile(t, fmt.Sprintf("cloud%d.ply", i), data)
	}

	chs := make([]<-chan Result, n)
	for i, path := range paths {
		chs[i] = LoadAsync(path)
	}
	for i, ch := range chs {
		res := <-ch
		if res.Err != nil {
			t.Fatalf("Load %d failed: %v", i, res.Err)
		}
		if x := res.Cloud.Offset()[0]; x != float32(i) {
			t.Errorf("Expected offset x %d for cloud %d, got %f", i, i, x)
		}
		if p := res.Cloud.Position(1); p != (PointXYZW{X: 1, Y: 2, Z: 3, W: 1}) {
			t.Errorf("Expected centered position of cloud %d, got %v", i, p)
		}
	}
}

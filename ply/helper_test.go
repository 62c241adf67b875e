package ply

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// plyData builds a PLY stream from header lines and payload values.
// The end_header line is appended to the header.
func plyData(t *testing.T, order binary.ByteOrder, header []string, values ...interface{}) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString(strings.Join(header, "\n"))
	buf.WriteString("\nend_header\n")
	for _, v := range values {
		if err := binary.Write(&buf, order, v); err != nil {
			t.Fatal(err)
		}
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

var xyzrgbHeader = []string{
	"ply",
	"format binary_little_endian 1.0",
	"element vertex 2",
	"property float x",
	"property float y",
	"property float z",
	"property uchar red",
	"property uchar green",
	"property uchar blue",
}

func xyzrgbData(t *testing.T) []byte {
	return plyData(t, binary.LittleEndian, xyzrgbHeader,
		float32(0), float32(0), float32(0), uint8(10), uint8(0), uint8(0),
		float32(1), float32(2), float32(3), uint8(255), uint8(128), uint8(64),
	)
}

package float

import (
	"unsafe"
)

// AsByteSlice returns the memory of s as bytes in host byte order.
// The result shares memory with s.
func AsByteSlice[T any](s []T) []byte {
	if len(s) == 0 {
		return []byte{}
	}
	n := len(s) * int(unsafe.Sizeof(s[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n)
}

// ByteSliceAsFloat32Slice returns the memory of b as float32 values.
// Trailing bytes which do not fill a float32 are ignored.
func ByteSliceAsFloat32Slice(b []byte) []float32 {
	n := len(b) / 4
	if n == 0 {
		return []float32{}
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), n)
}

// IsShadowing reports whether b and f do not share their first element.
func IsShadowing(b []byte, f []float32) bool {
	return uintptr(unsafe.Pointer(&f[0])) != uintptr(unsafe.Pointer(&b[0]))
}

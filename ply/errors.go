package ply

import (
	"errors"
)

var (
	// ErrMalformedHeader is returned when the header cannot be tokenized,
	// a count is not a number, or the stream ends before end_header.
	ErrMalformedHeader = errors.New("malformed ply header")
	// ErrTruncatedBody is returned when the payload holds fewer bytes than
	// the header declares.
	ErrTruncatedBody = errors.New("truncated ply body")
	// ErrUnsupportedPropertyType is returned when a property that has to be
	// read has a type with no known width.
	ErrUnsupportedPropertyType = errors.New("unsupported property type")
	// ErrUnsupportedFormat is returned for payload encodings other than
	// binary_little_endian and binary_big_endian.
	ErrUnsupportedFormat = errors.New("unsupported ply format")
)

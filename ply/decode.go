package ply

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

type fieldRoute int

const (
	routeSkip fieldRoute = iota
	routeX
	routeY
	routeZ
	routeRed
	routeGreen
	routeBlue
	routeAlpha
)

// route returns where a property value is stored.
// Positions are only fed by float properties and colors by uchar properties.
func route(p Property) fieldRoute {
	if p.List {
		return routeSkip
	}
	switch p.Type {
	case Float32:
		switch p.Name {
		case "x":
			return routeX
		case "y":
			return routeY
		case "z":
			return routeZ
		}
	case Uint8:
		switch p.Name {
		case "red":
			return routeRed
		case "green":
			return routeGreen
		case "blue":
			return routeBlue
		case "alpha":
			return routeAlpha
		}
	}
	return routeSkip
}

type field struct {
	Property
	size      int
	countSize int
	route     fieldRoute
}

// recordLayout is the decode plan of one element record.
type recordLayout struct {
	fields []field
	// stride is the record width, or 0 if the record contains lists.
	stride int
}

func newRecordLayout(e *Element) (*recordLayout, error) {
	l := &recordLayout{fields: make([]field, 0, len(e.Properties))}
	fixed := true
	for _, p := range e.Properties {
		f := field{Property: p, size: p.Type.Size(), route: route(p)}
		if f.size == 0 {
			return nil, fmt.Errorf("%w: %s property %q has type %q", ErrUnsupportedPropertyType, e.Name, p.Name, p.TypeName)
		}
		if p.List {
			f.countSize = p.CountType.Size()
			if f.countSize == 0 || p.CountType == Float32 || p.CountType == Float64 {
				return nil, fmt.Errorf("%w: %s list property %q has count type %q", ErrUnsupportedPropertyType, e.Name, p.Name, p.CountType)
			}
			fixed = false
		} else {
			l.stride += f.size
		}
		l.fields = append(l.fields, f)
	}
	if !fixed {
		l.stride = 0
	}
	return l, nil
}

// rawVertex is one decoded vertex record before normalization.
type rawVertex struct {
	position PointXYZW
	color    [4]uint8
}

type bodyDecoder struct {
	r        io.Reader
	order    binary.ByteOrder
	buf      [8]byte
	consumed int64
}

func newBodyDecoder(r io.Reader, order binary.ByteOrder) *bodyDecoder {
	return &bodyDecoder{r: r, order: order}
}

func (d *bodyDecoder) read(n int) ([]byte, error) {
	b := d.buf[:n]
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, err
	}
	d.consumed += int64(n)
	return b, nil
}

func (d *bodyDecoder) skip(n int64) error {
	m, err := io.CopyN(io.Discard, d.r, n)
	d.consumed += m
	return err
}

// readField reads one property value. Scalars are returned as raw bytes,
// lists are consumed entirely and return nil.
func (d *bodyDecoder) readField(f *field) ([]byte, error) {
	if !f.List {
		return d.read(f.size)
	}
	b, err := d.read(f.countSize)
	if err != nil {
		return nil, err
	}
	n, ok := f.CountType.uint64Value(b, d.order)
	if !ok {
		return nil, fmt.Errorf("negative list length for %q", f.Name)
	}
	if n > 0 {
		if err := d.skip(int64(n) * int64(f.size)); err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
	return nil, nil
}

func (d *bodyDecoder) skipElement(e *Element, l *recordLayout) error {
	if l.stride > 0 {
		if err := d.skip(int64(e.Count) * int64(l.stride)); err != nil {
			return truncated(e.Name, err)
		}
		return nil
	}
	for i := 0; i < e.Count; i++ {
		for j := range l.fields {
			if _, err := d.readField(&l.fields[j]); err != nil {
				return truncated(fmt.Sprintf("%s %d", e.Name, i), err)
			}
		}
	}
	return nil
}

// decodeVertices decodes n vertex records laid out as l.
// Room for prealloc records is reserved up front, the rest is grown on demand.
func (d *bodyDecoder) decodeVertices(n, prealloc int, l *recordLayout) ([]rawVertex, error) {
	out := make([]rawVertex, 0, prealloc)
	for i := 0; i < n; i++ {
		v := rawVertex{position: PointXYZW{W: 1}}
		for j := range l.fields {
			f := &l.fields[j]
			b, err := d.readField(f)
			if err != nil {
				return nil, truncated(fmt.Sprintf("vertex %d of %d", i, n), err)
			}
			switch f.route {
			case routeX:
				v.position.X = float32Value(b, d.order)
			case routeY:
				v.position.Y = float32Value(b, d.order)
			case routeZ:
				v.position.Z = float32Value(b, d.order)
			case routeRed:
				v.color[0] = b[0]
			case routeGreen:
				v.color[1] = b[0]
			case routeBlue:
				v.color[2] = b[0]
			case routeAlpha:
				v.color[3] = b[0]
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func truncated(where string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s", ErrTruncatedBody, where)
	}
	return fmt.Errorf("%s: %w", where, err)
}

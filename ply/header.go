package ply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format is the payload encoding declared by the header.
type Format int

const (
	BinaryLittleEndian Format = iota
	BinaryBigEndian
	ASCII
)

func (f Format) String() string {
	switch f {
	case BinaryLittleEndian:
		return "binary_little_endian"
	case BinaryBigEndian:
		return "binary_big_endian"
	case ASCII:
		return "ascii"
	}
	return "unknown"
}

func (f Format) byteOrder() (binary.ByteOrder, error) {
	switch f {
	case BinaryLittleEndian:
		return binary.LittleEndian, nil
	case BinaryBigEndian:
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}

// Property is a named, typed field of an element record.
// For list properties Type is the item type and CountType the length prefix type.
type Property struct {
	Name      string
	Type      ScalarType
	TypeName  string
	List      bool
	CountType ScalarType
}

// Element is a counted group of records.
type Element struct {
	Name       string
	Count      int
	Properties []Property
}

// Header holds the parsed header of a PLY file.
type Header struct {
	Format   Format
	Version  string
	Elements []Element
	Comments []string

	// Offset is the number of bytes consumed by the header, including the
	// end_header line and its terminator. The payload starts here.
	Offset int64
}

// Clone returns a deep copy of h.
func (h *Header) Clone() *Header {
	if h == nil {
		return nil
	}
	c := *h
	c.Comments = append([]string(nil), h.Comments...)
	c.Elements = make([]Element, len(h.Elements))
	for i, e := range h.Elements {
		e.Properties = append([]Property(nil), e.Properties...)
		c.Elements[i] = e
	}
	return &c
}

// Element returns the first element with the given name.
func (h *Header) Element(name string) (*Element, int) {
	for i := range h.Elements {
		if h.Elements[i].Name == name {
			return &h.Elements[i], i
		}
	}
	return nil, -1
}

func (h *Header) count(name string) int {
	if e, _ := h.Element(name); e != nil {
		return e.Count
	}
	return 0
}

// VertexCount returns the declared number of vertex records.
func (h *Header) VertexCount() int {
	return h.count("vertex")
}

// FaceCount returns the declared number of face records.
// Face records are never decoded.
func (h *Header) FaceCount() int {
	return h.count("face")
}

// VertexProperties returns a copy of the vertex record layout in declared order.
func (h *Header) VertexProperties() []Property {
	if e, _ := h.Element("vertex"); e != nil {
		return append([]Property(nil), e.Properties...)
	}
	return nil
}

// ParseHeader reads header lines from rb up to and including end_header.
// rb is left positioned at the first payload byte.
func ParseHeader(rb *bufio.Reader) (*Header, error) {
	h := &Header{Format: BinaryLittleEndian}

	for {
		line, err := rb.ReadString('\n')
		h.Offset += int64(len(line))
		if err != nil && err != io.EOF {
			return nil, err
		}
		text := strings.TrimRight(line, "\r\n")
		if text == "end_header" {
			return h, nil
		}
		if err == io.EOF {
			return nil, fmt.Errorf("%w: end_header not found", ErrMalformedHeader)
		}

		args := strings.Fields(text)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "format":
			if len(args) < 2 {
				return nil, fmt.Errorf("%w: format must have value", ErrMalformedHeader)
			}
			switch args[1] {
			case "binary_little_endian":
				h.Format = BinaryLittleEndian
			case "binary_big_endian":
				h.Format = BinaryBigEndian
			case "ascii":
				h.Format = ASCII
			default:
				return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, args[1])
			}
			if len(args) > 2 {
				h.Version = args[2]
			}
		case "comment":
			h.Comments = append(h.Comments, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "comment")))
		case "element":
			if len(args) < 3 {
				return nil, fmt.Errorf("%w: element must have name and count", ErrMalformedHeader)
			}
			n, err := strconv.ParseInt(args[2], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: element %s count: %v", ErrMalformedHeader, args[1], err)
			}
			if n < 0 {
				return nil, fmt.Errorf("%w: element %s has negative count %d", ErrMalformedHeader, args[1], n)
			}
			h.Elements = append(h.Elements, Element{Name: args[1], Count: int(n)})
		case "property":
			if len(h.Elements) == 0 {
				return nil, fmt.Errorf("%w: property declared before any element", ErrMalformedHeader)
			}
			p, err := parseProperty(args[1:])
			if err != nil {
				return nil, err
			}
			e := &h.Elements[len(h.Elements)-1]
			e.Properties = append(e.Properties, p)
		}
	}
}

func parseProperty(args []string) (Property, error) {
	if len(args) > 0 && args[0] == "list" {
		if len(args) < 4 {
			return Property{}, fmt.Errorf("%w: list property must have count type, item type and name", ErrMalformedHeader)
		}
		return Property{
			Name:      args[3],
			Type:      ParseScalarType(args[2]),
			TypeName:  args[2],
			List:      true,
			CountType: ParseScalarType(args[1]),
		}, nil
	}
	if len(args) < 2 {
		return Property{}, fmt.Errorf("%w: property must have type and name", ErrMalformedHeader)
	}
	return Property{
		Name:     args[1],
		Type:     ParseScalarType(args[0]),
		TypeName: args[0],
	}, nil
}

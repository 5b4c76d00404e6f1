// Package ply reads and writes binary little-endian PLY triangle meshes.
//
// A file is an ASCII header followed by a binary body:
//
//	ply
//	format binary_little_endian 1.0
//	comment <any text>
//	element vertex <N>
//	property float x
//	property float y
//	property float z
//	element face <M>
//	property list uchar int vertex_indices
//	end_header
//	<N x (float32 x, float32 y, float32 z)>
//	<M x (uint8 k, k x int32 index)>
//
// Only triangles (k == 3) are accepted.
package ply

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// Header line tokens.
const (
	magicLine       = "ply"
	endHeaderLine   = "end_header"
	commentPrefix   = "comment "
	formatPrefix    = "format "
	vertexPrefix    = "element vertex "
	facePrefix      = "element face "
	binaryLEFormat  = "binary_little_endian"
	defaultVersion  = "1.0"
	headerSeparator = " "
)

// Header holds the element counts declared by a PLY header.
type Header struct {
	Format      string   // e.g. "binary_little_endian", empty if the line was absent
	Version     string   // format version, e.g. "1.0"
	VertexCount uint32   // number of vertex records in the body
	FaceCount   uint32   // number of face records in the body
	Comments    []string // comment text without the "comment " prefix
}

// ParseHeader reads header lines up to and including "end_header".
// On success the reader is positioned at the first vertex record.
func ParseHeader(r *Reader) (Header, error) {
	var h Header

	if err := readMagic(r); err != nil {
		return h, err
	}

	for {
		line, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return h, ErrTruncated
			}
			return h, err
		}

		switch {
		case line == endHeaderLine:
			return h, nil

		case strings.HasPrefix(line, commentPrefix):
			h.Comments = append(h.Comments, strings.TrimPrefix(line, commentPrefix))

		case strings.HasPrefix(line, formatPrefix):
			parts := strings.Split(line, headerSeparator)
			if len(parts) < 2 || parts[1] != binaryLEFormat {
				return h, formatErrorf(ErrUnsupportedFormat, "%q", line)
			}
			h.Format = parts[1]
			h.Version = defaultVersion
			if len(parts) > 2 {
				h.Version = parts[2]
			}

		case strings.HasPrefix(line, vertexPrefix):
			n, err := parseCount(line)
			if err != nil {
				return h, err
			}
			h.VertexCount = n

		case strings.HasPrefix(line, facePrefix):
			n, err := parseCount(line)
			if err != nil {
				return h, err
			}
			h.FaceCount = n
		}
		// property lines and unknown elements are ignored
	}
}

// readMagic consumes leading blank lines and checks the "ply" line.
func readMagic(r *Reader) error {
	for {
		line, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return formatErrorf(ErrInvalidMagic, "empty input")
			}
			return err
		}
		if line == "" {
			continue
		}
		if line != magicLine {
			return formatErrorf(ErrInvalidMagic, "got %q", truncate(line, 32))
		}
		return nil
	}
}

// parseCount parses "element <name> <count>".
func parseCount(line string) (uint32, error) {
	parts := strings.Split(line, headerSeparator)
	if len(parts) != 3 {
		return 0, formatErrorf(ErrMalformedCount, "%q", line)
	}
	n, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return 0, formatErrorf(ErrMalformedCount, "%q", line)
	}
	return uint32(n), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package ply

import (
	"errors"
	"strings"
	"testing"
)

func TestParseHeader_Counts(t *testing.T) {
	src := "ply\nformat binary_little_endian 1.0\nelement vertex 4\nelement face 2\nend_header\n"

	h, err := ParseHeader(NewReader(strings.NewReader(src)))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.VertexCount != 4 || h.FaceCount != 2 {
		t.Errorf("got (%d, %d), want (4, 2)", h.VertexCount, h.FaceCount)
	}
	if h.Format != "binary_little_endian" || h.Version != "1.0" {
		t.Errorf("got format %q version %q", h.Format, h.Version)
	}
}

func TestParseHeader_FullHeader(t *testing.T) {
	src := strings.Join([]string{
		"",
		"ply",
		"format binary_little_endian 1.0",
		"comment VCGLIB generated",
		"comment second",
		"element vertex 71020",
		"property float x",
		"property float y",
		"property float z",
		"element face 140920",
		"property list uchar int vertex_indices",
		"obj_info ignored",
		"end_header",
		"",
	}, "\r\n")

	r := NewReader(strings.NewReader(src + "BODY"))
	h, err := ParseHeader(r)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.VertexCount != 71020 {
		t.Errorf("VertexCount = %d, want 71020", h.VertexCount)
	}
	if h.FaceCount != 140920 {
		t.Errorf("FaceCount = %d, want 140920", h.FaceCount)
	}
	if len(h.Comments) != 2 || h.Comments[0] != "VCGLIB generated" {
		t.Errorf("Comments = %q", h.Comments)
	}

	// Reader must be positioned right after end_header.
	b, err := r.ReadUint8()
	if err != nil || b != 'B' {
		t.Errorf("next byte = %q, %v; want 'B'", b, err)
	}
}

func TestParseHeader_MissingFormatLine(t *testing.T) {
	h, err := ParseHeader(NewReader(strings.NewReader("ply\nelement vertex 3\nend_header\n")))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.VertexCount != 3 || h.FaceCount != 0 || h.Format != "" {
		t.Errorf("got %+v", h)
	}
}

func TestParseHeader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		class   error
	}{
		{"empty input", "", ErrInvalidMagic, ErrFormat},
		{"wrong magic", "PLY\nend_header\n", ErrInvalidMagic, ErrFormat},
		{"stl magic", "solid cube\n", ErrInvalidMagic, ErrFormat},
		{"ascii format", "ply\nformat ascii 1.0\nend_header\n", ErrUnsupportedFormat, ErrFormat},
		{"big endian", "ply\nformat binary_big_endian 1.0\nend_header\n", ErrUnsupportedFormat, ErrFormat},
		{"non-numeric count", "ply\nelement vertex four\nend_header\n", ErrMalformedCount, ErrFormat},
		{"negative count", "ply\nelement face -1\nend_header\n", ErrMalformedCount, ErrFormat},
		{"extra token", "ply\nelement vertex 4 5\nend_header\n", ErrMalformedCount, ErrFormat},
		{"double space", "ply\nelement vertex  4\nend_header\n", ErrMalformedCount, ErrFormat},
		{"count overflow", "ply\nelement vertex 4294967296\nend_header\n", ErrMalformedCount, ErrFormat},
		{"no end_header", "ply\nformat binary_little_endian 1.0\nelement vertex 4\n", ErrTruncated, ErrTruncated},
		{"magic only", "ply\n", ErrTruncated, ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(NewReader(strings.NewReader(tt.src)))
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, tt.class) {
				t.Errorf("got %v, want class %v", err, tt.class)
			}
		})
	}
}

func TestParseHeader_WrongMagicStopsReading(t *testing.T) {
	r := NewReader(strings.NewReader("nope\nply\nend_header\n"))
	if _, err := ParseHeader(r); !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("got %v, want ErrInvalidMagic", err)
	}
	if r.Offset() != int64(len("nope\n")) {
		t.Errorf("consumed %d bytes, want only the first line", r.Offset())
	}
}

func TestFormatError_Message(t *testing.T) {
	err := formatErrorf(ErrNonTriangleFace, "face %d has %d indices", 7, 4)
	want := "face is not a triangle: face 7 has 4 indices"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

package ply

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"strings"

	"github.com/Faultbox/plyview/pkg/math"
)

// Reader is a forward-only cursor over PLY data. The header is read
// line by line and the body as fixed-size little-endian records.
type Reader struct {
	r      *bufio.Reader
	offset int64
	buf    [12]byte
}

// NewReader wraps r in a buffered PLY cursor.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 64*1024)}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ReadLine reads one newline-terminated line with the line ending removed.
// A final line without a newline is returned as-is; io.EOF is only
// reported once nothing is left.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.r.ReadString('\n')
	r.offset += int64(len(line))
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt32 reads a little-endian signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	b, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// ReadFloat32 reads a little-endian IEEE-754 float.
func (r *Reader) ReadFloat32() (float32, error) {
	b, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return gomath.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// ReadVec3 reads three little-endian floats.
func (r *Reader) ReadVec3() (math.Vec3, error) {
	b, err := r.read(12)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{
		X: gomath.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		Y: gomath.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: gomath.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}, nil
}

// read fills the scratch buffer with n bytes. Running out of input is
// reported as ErrTruncated.
func (r *Reader) read(n int) ([]byte, error) {
	b := r.buf[:n]
	got, err := io.ReadFull(r.r, b)
	r.offset += int64(got)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: wanted %d bytes at offset %d, got %d", ErrTruncated, n, r.offset-int64(got), got)
		}
		return nil, err
	}
	return b, nil
}

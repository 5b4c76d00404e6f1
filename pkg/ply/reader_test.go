package ply

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Faultbox/plyview/pkg/math"
)

func TestReader_ReadLine(t *testing.T) {
	r := NewReader(strings.NewReader("first\r\nsecond\nlast"))

	for _, want := range []string{"first", "second", "last"} {
		got, err := r.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine = %q, want %q", got, want)
		}
	}

	if _, err := r.ReadLine(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadLine at end = %v, want io.EOF", err)
	}
}

func TestReader_Records(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(3)
	binary.Write(&buf, binary.LittleEndian, int32(-7))
	binary.Write(&buf, binary.LittleEndian, float32(1.5))
	binary.Write(&buf, binary.LittleEndian, [3]float32{1, -2, 3.25})

	r := NewReader(&buf)

	if b, err := r.ReadUint8(); err != nil || b != 3 {
		t.Errorf("ReadUint8 = %d, %v", b, err)
	}
	if i, err := r.ReadInt32(); err != nil || i != -7 {
		t.Errorf("ReadInt32 = %d, %v", i, err)
	}
	if f, err := r.ReadFloat32(); err != nil || f != 1.5 {
		t.Errorf("ReadFloat32 = %f, %v", f, err)
	}
	if v, err := r.ReadVec3(); err != nil || v != (math.Vec3{X: 1, Y: -2, Z: 3.25}) {
		t.Errorf("ReadVec3 = %v, %v", v, err)
	}
	if r.Offset() != 1+4+4+12 {
		t.Errorf("Offset = %d, want 21", r.Offset())
	}
}

func TestReader_ShortRead(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2, 3, 4, 5}))

	_, err := r.ReadVec3()
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("ReadVec3 = %v, want ErrTruncated", err)
	}
	if _, err := r.ReadUint8(); !errors.Is(err, ErrTruncated) {
		t.Errorf("ReadUint8 after EOF = %v, want ErrTruncated", err)
	}
}

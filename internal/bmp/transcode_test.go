package bmp

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"testing"
)

// randomGrid fills a width x height grid with reproducible pixels.
func randomGrid(t *testing.T, width, height int, seed int64) *PixelGrid {
	t.Helper()
	g, err := NewPixelGrid(width, height)
	if err != nil {
		t.Fatalf("NewPixelGrid(%d, %d) error: %v", width, height, err)
	}
	rng := rand.New(rand.NewSource(seed))
	for i := range g.Pix {
		g.Pix[i] = Pixel{B: byte(rng.Intn(256)), G: byte(rng.Intn(256)), R: byte(rng.Intn(256))}
	}
	return g
}

func TestDecodeTwoByOne(t *testing.T) {
	block := []byte{10, 20, 30, 40, 50, 60, 0, 0}

	g, _ := NewPixelGrid(2, 1)
	if err := DecodePixels(bytes.NewReader(block), g); err != nil {
		t.Fatalf("DecodePixels() error: %v", err)
	}

	want := []Pixel{{B: 10, G: 20, R: 30}, {B: 40, G: 50, R: 60}}
	for x, w := range want {
		p, _ := g.At(x, 0)
		if p != w {
			t.Errorf("At(%d, 0) = (R=%d, G=%d, B=%d), want (R=%d, G=%d, B=%d)", x, p.R, p.G, p.B, w.R, w.G, w.B)
		}
	}

	var out bytes.Buffer
	if err := EncodePixels(&out, g); err != nil {
		t.Fatalf("EncodePixels() error: %v", err)
	}
	if !bytes.Equal(out.Bytes(), block) {
		t.Errorf("EncodePixels() = %v, want %v", out.Bytes(), block)
	}
}

func TestDecodeBottomUp(t *testing.T) {
	// 1x2 image: disk row 0 is the bottom row
	block := []byte{
		1, 2, 3, 0, // bottom
		4, 5, 6, 0, // top
	}
	g, _ := NewPixelGrid(1, 2)
	if err := DecodePixels(bytes.NewReader(block), g); err != nil {
		t.Fatalf("DecodePixels() error: %v", err)
	}
	if top, _ := g.At(0, 0); top != (Pixel{B: 4, G: 5, R: 6}) {
		t.Errorf("top pixel = %+v, want {B:4 G:5 R:6}", top)
	}
	if bottom, _ := g.At(0, 1); bottom != (Pixel{B: 1, G: 2, R: 3}) {
		t.Errorf("bottom pixel = %+v, want {B:1 G:2 R:3}", bottom)
	}
}

func TestTranscodeRoundTrip(t *testing.T) {
	sizes := []struct{ w, h int }{
		{0, 0}, {0, 5}, {5, 0}, {1, 1}, {1, 7}, {2, 3}, {3, 2}, {4, 4}, {5, 3}, {17, 9}, {64, 1},
	}
	for i, s := range sizes {
		g := randomGrid(t, s.w, s.h, int64(i))

		var buf bytes.Buffer
		if err := EncodePixels(&buf, g); err != nil {
			t.Fatalf("%dx%d: EncodePixels() error: %v", s.w, s.h, err)
		}
		if buf.Len() != PixelDataSize(s.w, s.h) {
			t.Fatalf("%dx%d: encoded %d bytes, want %d", s.w, s.h, buf.Len(), PixelDataSize(s.w, s.h))
		}

		// Padding bytes are zero
		stride := RowStride(s.w)
		for row := range s.h {
			for _, c := range buf.Bytes()[row*stride+3*s.w : (row+1)*stride] {
				if c != 0 {
					t.Fatalf("%dx%d: non-zero padding in disk row %d", s.w, s.h, row)
				}
			}
		}

		got, _ := NewPixelGrid(s.w, s.h)
		if err := DecodePixels(&buf, got); err != nil {
			t.Fatalf("%dx%d: DecodePixels() error: %v", s.w, s.h, err)
		}
		if !got.Equal(g) {
			t.Errorf("%dx%d: decode(encode(grid)) != grid", s.w, s.h)
		}
	}
}

func TestEncodeDropsPadding(t *testing.T) {
	block := []byte{1, 2, 3, 0xaa, 4, 5, 6, 0xbb}
	g, _ := NewPixelGrid(1, 2)
	if err := DecodePixels(bytes.NewReader(block), g); err != nil {
		t.Fatalf("DecodePixels() error: %v", err)
	}

	var out bytes.Buffer
	EncodePixels(&out, g)
	want := []byte{1, 2, 3, 0, 4, 5, 6, 0}
	if !bytes.Equal(out.Bytes(), want) {
		t.Errorf("EncodePixels() = %v, want %v", out.Bytes(), want)
	}
}

func TestDecodeTruncated(t *testing.T) {
	g, _ := NewPixelGrid(2, 2)
	g.Set(0, 0, Pixel{R: 42})

	err := DecodePixels(bytes.NewReader(make([]byte, 12)), g)
	if !errors.Is(err, ErrIO) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("DecodePixels(short) error = %v, want %v and %v", err, ErrIO, io.ErrUnexpectedEOF)
	}
	if p, _ := g.At(0, 0); p != (Pixel{R: 42}) {
		t.Errorf("grid modified by failed decode: %+v", p)
	}

	err = DecodePixels(bytes.NewReader(nil), g)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("DecodePixels(empty) error = %v, want %v", err, io.ErrUnexpectedEOF)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestEncodeWriteError(t *testing.T) {
	g, _ := NewPixelGrid(1, 1)
	if err := EncodePixels(failingWriter{}, g); !errors.Is(err, ErrIO) {
		t.Errorf("EncodePixels() error = %v, want %v", err, ErrIO)
	}
}

// countingWriter records the number of Write calls.
type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func TestEncodeSingleWrite(t *testing.T) {
	g := randomGrid(t, 7, 5, 1)
	var w countingWriter
	if err := EncodePixels(&w, g); err != nil {
		t.Fatalf("EncodePixels() error: %v", err)
	}
	if w.writes != 1 {
		t.Errorf("EncodePixels() made %d writes, want 1", w.writes)
	}
}

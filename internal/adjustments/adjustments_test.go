package adjustments

import (
	"errors"
	"testing"

	"github.com/anas-shakeel/bmp24/internal/bmp"
)

// numbered returns a width x height bitmap whose pixel (x, y) has R=x, G=y.
func numbered(t *testing.T, width, height int) *bmp.Image {
	t.Helper()
	b, err := bmp.NewImage(width, height)
	if err != nil {
		t.Fatalf("NewImage() error: %v", err)
	}
	for y := range height {
		for x := range width {
			b.Set(x, y, bmp.Pixel{R: byte(x), G: byte(y), B: 7})
		}
	}
	return b
}

func TestCrop(t *testing.T) {
	b := numbered(t, 5, 4)
	c, err := Crop(b, 1, 2, 3, 2)
	if err != nil {
		t.Fatalf("Crop() error: %v", err)
	}
	if c.Width() != 3 || c.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", c.Width(), c.Height())
	}
	for y := range 2 {
		for x := range 3 {
			p, _ := c.At(x, y)
			if int(p.R) != x+1 || int(p.G) != y+2 {
				t.Errorf("At(%d, %d) = %+v, want R=%d G=%d", x, y, p, x+1, y+2)
			}
		}
	}
	if c.Stride != 12 || c.Padding != 3 {
		t.Errorf("Stride, Padding = %d, %d, want 12, 3", c.Stride, c.Padding)
	}
	if b.Width() != 5 {
		t.Error("Crop() modified the source")
	}
}

func TestCropBounds(t *testing.T) {
	b := numbered(t, 4, 4)
	bad := [][4]int{{1, 0, 4, 1}, {0, 1, 1, 4}, {-1, 0, 1, 1}, {0, 0, -1, 1}}
	for _, r := range bad {
		if _, err := Crop(b, r[0], r[1], r[2], r[3]); err == nil {
			t.Errorf("Crop(%v) succeeded", r)
		}
	}

	var empty bmp.Image
	if _, err := Crop(&empty, 0, 0, 1, 1); !errors.Is(err, bmp.ErrNullImage) {
		t.Errorf("Crop() on empty image error = %v, want %v", err, bmp.ErrNullImage)
	}
}

func TestFlipVertical(t *testing.T) {
	for _, height := range []int{1, 2, 3, 4} {
		b := numbered(t, 2, height)
		if err := FlipVertical(b); err != nil {
			t.Fatalf("FlipVertical() error: %v", err)
		}
		for y := range height {
			p, _ := b.At(1, y)
			if int(p.G) != height-1-y {
				t.Errorf("height %d: row %d holds G=%d, want %d", height, y, p.G, height-1-y)
			}
		}
	}
}

func TestFlipHorizontal(t *testing.T) {
	b := numbered(t, 5, 2)
	if err := FlipHorizontal(b); err != nil {
		t.Fatalf("FlipHorizontal() error: %v", err)
	}
	for x := range 5 {
		p, _ := b.At(x, 1)
		if int(p.R) != 4-x || p.G != 1 {
			t.Errorf("At(%d, 1) = %+v, want R=%d G=1", x, p, 4-x)
		}
	}
}

func TestScaleNearest(t *testing.T) {
	b := numbered(t, 2, 2)
	s, err := Scale(b, 4, 6, "nearest")
	if err != nil {
		t.Fatalf("Scale() error: %v", err)
	}
	if s.Width() != 4 || s.Height() != 6 {
		t.Fatalf("size = %dx%d, want 4x6", s.Width(), s.Height())
	}
	for y := range 6 {
		for x := range 4 {
			p, _ := s.At(x, y)
			if int(p.R) != x/2 || int(p.G) != y/3 || p.B != 7 {
				t.Errorf("At(%d, %d) = %+v, want R=%d G=%d B=7", x, y, p, x/2, y/3)
			}
		}
	}
}

func TestScaleKeepsStoredHeaders(t *testing.T) {
	b := numbered(t, 2, 2)
	b.BFHeader, b.BIHeader = bmp.NewHeaders(2, 2)
	b.BIHeader.XPixelsPerM = 2835

	s, err := Scale(b, 3, 3, "catmullrom")
	if err != nil {
		t.Fatalf("Scale() error: %v", err)
	}
	_, bih, stored := s.Headers()
	if !stored {
		t.Fatal("Scale() dropped the stored headers")
	}
	if bih.Width != 3 || bih.Height != 3 || bih.XPixelsPerM != 2835 {
		t.Errorf("Headers() = %+v", bih)
	}
}

func TestScaleErrors(t *testing.T) {
	b := numbered(t, 2, 2)
	if _, err := Scale(b, 2, 2, "lanczos"); err == nil {
		t.Error("Scale() with unknown kernel succeeded")
	}
	if _, err := Scale(b, 0, 2, "nearest"); err == nil {
		t.Error("Scale() to zero width succeeded")
	}
	var empty bmp.Image
	if _, err := Scale(&empty, 2, 2, ""); !errors.Is(err, bmp.ErrNullImage) {
		t.Errorf("Scale() on empty image error = %v, want %v", err, bmp.ErrNullImage)
	}
}

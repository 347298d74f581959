package bmp

import "fmt"

// MaxPixels bounds the size of a pixel grid. 24-bit bitmaps of this size
// still fit the 32-bit size fields of the headers.
const MaxPixels = 1 << 28

// Pixel is one 24-bit pixel, fields in on-disk order (Blue, Green, Red).
type Pixel struct {
	B, G, R byte
}

// PixelGrid holds Width*Height pixels in row-major order. Row 0 is the top
// row of the image and pixel (x, y) lives at Pix[y*Width+x].
type PixelGrid struct {
	Width  int
	Height int
	Pix    []Pixel
}

// NewPixelGrid allocates a zero-filled width x height grid.
func NewPixelGrid(width, height int) (*PixelGrid, error) {
	g := &PixelGrid{}
	if err := g.Resize(width, height); err != nil {
		return nil, err
	}
	return g, nil
}

// In reports whether (x, y) lies inside the grid.
func (g *PixelGrid) In(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the pixel at (x, y).
func (g *PixelGrid) At(x, y int) (Pixel, error) {
	if !g.In(x, y) {
		return Pixel{}, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, g.Width, g.Height)
	}
	return g.Pix[y*g.Width+x], nil
}

// Set replaces the pixel at (x, y).
func (g *PixelGrid) Set(x, y int, p Pixel) error {
	if !g.In(x, y) {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, g.Width, g.Height)
	}
	g.Pix[y*g.Width+x] = p
	return nil
}

// Row returns the pixels of row y. The slice aliases the grid.
func (g *PixelGrid) Row(y int) []Pixel {
	return g.Pix[y*g.Width : (y+1)*g.Width]
}

// Resize reallocates the grid as a zero-filled width x height buffer.
// Existing pixels are discarded; callers must fill the grid again.
func (g *PixelGrid) Resize(width, height int) error {
	if err := checkSize(width, height); err != nil {
		return err
	}

	g.Pix = make([]Pixel, width*height)
	g.Width, g.Height = width, height
	return nil
}

// checkSize reports whether a width x height grid may be allocated.
func checkSize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrOutOfBounds, width, height)
	}
	if height != 0 && width > MaxPixels/height {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrOutOfMemory, width, height, MaxPixels)
	}
	return nil
}

// Clone returns a deep copy of the grid.
func (g *PixelGrid) Clone() *PixelGrid {
	pix := make([]Pixel, len(g.Pix))
	copy(pix, g.Pix)
	return &PixelGrid{Width: g.Width, Height: g.Height, Pix: pix}
}

// Equal reports whether both grids have the same size and pixels.
func (g *PixelGrid) Equal(o *PixelGrid) bool {
	if g.Width != o.Width || g.Height != o.Height || len(g.Pix) != len(o.Pix) {
		return false
	}
	for i := range g.Pix {
		if g.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

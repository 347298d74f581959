package bmp

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ToRGBA returns an opaque copy of the image as an *image.RGBA.
func (b *Image) ToRGBA() (*image.RGBA, error) {
	if err := b.check(); err != nil {
		return nil, err
	}

	rgba := image.NewRGBA(image.Rect(0, 0, b.Grid.Width, b.Grid.Height))
	for y := range b.Grid.Height {
		row := rgba.Pix[y*rgba.Stride:]
		for x, p := range b.Grid.Row(y) {
			row[4*x], row[4*x+1], row[4*x+2], row[4*x+3] = p.R, p.G, p.B, 0xff
		}
	}
	return rgba, nil
}

// FromImage converts src into a new bitmap with generated headers. Alpha is
// dropped after compositing onto black.
func FromImage(src image.Image) (*Image, error) {
	bounds := src.Bounds()
	b, err := NewImage(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
		draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Over)
	}

	for y := range b.Grid.Height {
		row := rgba.Pix[y*rgba.Stride:]
		dst := b.Grid.Row(y)
		for x := range dst {
			dst[x] = Pixel{R: row[4*x], G: row[4*x+1], B: row[4*x+2]}
		}
	}
	return b, nil
}

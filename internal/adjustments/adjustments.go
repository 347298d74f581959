// Adjusts image dimensions, orientation, or structure.
package adjustments

import (
	"errors"
	"fmt"
	"image"

	"github.com/anas-shakeel/bmp24/internal/bmp"
	"golang.org/x/image/draw"
)

// Crops a region in the bitmap image (0,0  is at the top-left of the image)
func Crop(b *bmp.Image, x, y, width, height int) (*bmp.Image, error) {
	if b.State() != bmp.Loaded {
		return nil, bmp.ErrNullImage
	}

	// Validate bounds
	if x < 0 || y < 0 || width < 0 || height < 0 {
		return nil, errors.New("invalid bounds: negative region")
	} else if width+x > b.Width() {
		return nil, errors.New("invalid bounds: width out of bounds")
	} else if height+y > b.Height() {
		return nil, errors.New("invalid bounds: height out of bounds")
	}

	// Copy the old bitmap (everything except pixels)
	dupBitmap := *b
	grid, err := bmp.NewPixelGrid(width, height)
	if err != nil {
		return nil, err
	}
	dupBitmap.Grid = grid
	dupBitmap.Extra = append([]byte(nil), b.Extra...)

	// Crop the bitmap
	end := x + width
	for row := range height { // Height | Rows
		copy(grid.Row(row), b.Grid.Row(y + row)[x:end])
	}

	// Update Metadata of dupBitmap
	dupBitmap.UpdateMeta()

	return &dupBitmap, nil
}

// FlipVertical mirrors the bitmap top to bottom in-place.
func FlipVertical(b *bmp.Image) error {
	if b.State() != bmp.Loaded {
		return bmp.ErrNullImage
	}

	height := b.Height()
	tmp := make([]bmp.Pixel, b.Width())
	for top := range height / 2 {
		bottom := height - 1 - top
		copy(tmp, b.Grid.Row(top))
		copy(b.Grid.Row(top), b.Grid.Row(bottom))
		copy(b.Grid.Row(bottom), tmp)
	}
	return nil
}

// FlipHorizontal mirrors the bitmap left to right in-place.
func FlipHorizontal(b *bmp.Image) error {
	if b.State() != bmp.Loaded {
		return bmp.ErrNullImage
	}

	for y := range b.Height() {
		row := b.Grid.Row(y)
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}
	return nil
}

// Kernels accepted by Scale.
var kernels = map[string]draw.Scaler{
	"nearest":    draw.NearestNeighbor,
	"bilinear":   draw.ApproxBiLinear,
	"catmullrom": draw.CatmullRom,
}

// Kernel returns the scaler registered under name.
func Kernel(name string) (draw.Scaler, error) {
	if name == "" {
		name = "nearest"
	}
	s, ok := kernels[name]
	if !ok {
		return nil, fmt.Errorf("invalid kernel %q: must be nearest, bilinear or catmullrom", name)
	}
	return s, nil
}

// Scale resamples the bitmap to width x height using the named kernel.
// The stored headers of b are carried over with updated dimensions.
func Scale(b *bmp.Image, width, height int, kernel string) (*bmp.Image, error) {
	scaler, err := Kernel(kernel)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid size: width and height must be greater than 0")
	}

	src, err := b.ToRGBA()
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	scaled, err := bmp.FromImage(dst)
	if err != nil {
		return nil, err
	}
	scaled.Filename = b.Filename
	scaled.BFHeader, scaled.BIHeader = b.BFHeader, b.BIHeader
	scaled.Extra = append([]byte(nil), b.Extra...)
	scaled.UpdateMeta()

	return scaled, nil
}

// Filters perform color manipulation and per-pixel operations
package filters

import (
	"errors"
	"fmt"

	"github.com/anas-shakeel/bmp24/internal/bmp"
	"github.com/anas-shakeel/bmp24/internal/utils"
	"github.com/knetic/govaluate"
)

// apply replaces every pixel of b with fn(pixel), row by row from the top.
func apply(b *bmp.Image, fn func(p bmp.Pixel) bmp.Pixel) error {
	width, height := b.Width(), b.Height()
	for y := range height {
		for x := range width {
			p, err := b.At(x, y)
			if err != nil {
				return err
			}
			if err := b.Set(x, y, fn(p)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Inverts (negates) the bitmap image
func Invert(b *bmp.Image) error {
	if b.State() != bmp.Loaded {
		return bmp.ErrNullImage
	}
	return apply(b, func(p bmp.Pixel) bmp.Pixel {
		return bmp.Pixel{B: 255 - p.B, G: 255 - p.G, R: 255 - p.R}
	})
}

// Converts a bitmap to Black-and-White
func Grayscale(b *bmp.Image) error {
	if b.State() != bmp.Loaded {
		return bmp.ErrNullImage
	}
	return apply(b, func(p bmp.Pixel) bmp.Pixel {
		// Find the average value for pixel
		avg := byte(utils.Average(int(p.R), int(p.G), int(p.B)))
		return bmp.Pixel{B: avg, G: avg, R: avg}
	})
}

// Converts a bitmap to Black-and-White (with ITU-R 601-2 Luma Transform)
func GrayscaleLuma(b *bmp.Image) error {
	if b.State() != bmp.Loaded {
		return bmp.ErrNullImage
	}
	return apply(b, func(p bmp.Pixel) bmp.Pixel {
		L := byte(int(p.R)*299/1000 + int(p.G)*587/1000 + int(p.B)*114/1000)
		return bmp.Pixel{B: L, G: L, R: L}
	})
}

// Adjusts the Brightness of a Bitmap in-place.
//
// method can be "add" (adds value to each channel) or "multiply" (multiplies each channel by value).
// Pixel values are clipped to [0, 255].
func Brightness(b *bmp.Image, factor float64, method string) error {
	type Operation func(x, y float64) float64
	var operation Operation

	// Select an operation of brightness (additive or multiplicative)
	switch method {
	case "add":
		operation = func(x, y float64) float64 {
			return x + y
		}
	case "multiply":
		operation = func(x, y float64) float64 {
			return x * y
		}
	default:
		return errors.New("invalid method: method must be add or multiply")
	}
	if b.State() != bmp.Loaded {
		return bmp.ErrNullImage
	}

	// Apply brightness (or darkness)
	return apply(b, func(p bmp.Pixel) bmp.Pixel {
		return bmp.Pixel{
			B: utils.Clamp(operation(float64(p.B), factor)),
			G: utils.Clamp(operation(float64(p.G), factor)),
			R: utils.Clamp(operation(float64(p.R), factor)),
		}
	})
}

// Adjusts the Contrast of a Bitmap in-place.
// factor > 1.0 increases Contrast, factor < 1.0 decreases it.
func Contrast(b *bmp.Image, factor float64) error {
	if b.State() != bmp.Loaded {
		return bmp.ErrNullImage
	}

	totalPixels := b.Width() * b.Height()
	if totalPixels == 0 {
		return nil
	}

	// Compute mean for each channel
	var sumR, sumG, sumB int
	for _, p := range b.Grid.Pix {
		sumR += int(p.R)
		sumG += int(p.G)
		sumB += int(p.B)
	}
	meanR := float64(sumR / totalPixels) // Average of all R pixels
	meanG := float64(sumG / totalPixels) // Average of all G pixels
	meanB := float64(sumB / totalPixels) // Average of all B pixels

	// Apply contrast
	return apply(b, func(p bmp.Pixel) bmp.Pixel {
		return bmp.Pixel{
			B: utils.Clamp(float64(p.B)*factor + (1-factor)*meanB),
			G: utils.Clamp(float64(p.G)*factor + (1-factor)*meanG),
			R: utils.Clamp(float64(p.R)*factor + (1-factor)*meanR),
		}
	})
}

// Lookup maps every channel value to a new one.
type Lookup [256]byte

// CompileExpression evaluates expr for each channel value c in [0, 255]
// and returns the resulting table. Results are clipped to [0, 255].
//
//	CompileExpression("255 - c") // negative
//	CompileExpression("c * 1.5") // brighter
func CompileExpression(expr string) (*Lookup, error) {
	expression, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expr, err)
	}

	var lut Lookup
	params := map[string]interface{}{"c": 0.0}
	for c := range len(lut) {
		params["c"] = float64(c)
		result, err := expression.Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("expression %q at c=%d: %w", expr, c, err)
		}
		v, ok := result.(float64)
		if !ok {
			return nil, fmt.Errorf("expression %q must be numeric, got %T", expr, result)
		}
		lut[c] = utils.Clamp(v)
	}
	return &lut, nil
}

// Apply maps every channel of every pixel of b through the table.
func (l *Lookup) Apply(b *bmp.Image) error {
	if b.State() != bmp.Loaded {
		return bmp.ErrNullImage
	}
	return apply(b, func(p bmp.Pixel) bmp.Pixel {
		return bmp.Pixel{B: l[p.B], G: l[p.G], R: l[p.R]}
	})
}

// Expression applies a per-channel expression of c to the bitmap in-place.
func Expression(b *bmp.Image, expr string) error {
	lut, err := CompileExpression(expr)
	if err != nil {
		return err
	}
	return lut.Apply(b)
}

package bmp

import (
	"bytes"
	"errors"
	"io"
)

// DecodePixels reads the on-disk pixel array of g's size from r into g.
// r must be positioned at the first pixel byte. Rows are stored bottom-up
// and padded to 4 bytes; g receives them top-down without padding.
//
// On a short read g is left unchanged.
func DecodePixels(r io.Reader, g *PixelGrid) error {
	block, err := readPixelBlock(r, g.Width, g.Height)
	if err != nil {
		return err
	}
	decodeBlock(block, g)
	return nil
}

// readPixelBlock reads the padded pixel array of a width x height bitmap.
// The buffer grows with the bytes actually read, so a truncated stream
// fails before anything of the declared size is allocated.
func readPixelBlock(r io.Reader, width, height int) ([]byte, error) {
	size := int64(PixelDataSize(width, height))

	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, size); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, ioError("pixel data", err)
	}
	return buf.Bytes(), nil
}

// decodeBlock copies a complete on-disk pixel array into g.
func decodeBlock(block []byte, g *PixelGrid) {
	width, height := g.Width, g.Height
	stride := RowStride(width)
	rowLen := bytesPerPixel * width

	for diskRow := range height {
		// BottomUp: the first row on disk is the last row of the image
		start := diskRow * stride
		src := block[start : start+rowLen]
		dst := g.Row(height - 1 - diskRow)
		for col := range dst {
			dst[col] = Pixel{B: src[3*col], G: src[3*col+1], R: src[3*col+2]}
		}
	}
}

// EncodePixels writes g to w as a bottom-up, zero-padded pixel array using
// a single Write call.
func EncodePixels(w io.Writer, g *PixelGrid) error {
	width, height := g.Width, g.Height
	stride := RowStride(width)

	// Padding bytes stay zero from the allocation
	block := make([]byte, stride*height)
	for diskRow := range height {
		dst := block[diskRow*stride:]
		for col, p := range g.Row(height - 1 - diskRow) {
			dst[3*col], dst[3*col+1], dst[3*col+2] = p.B, p.G, p.R
		}
	}

	if _, err := w.Write(block); err != nil {
		return ioError("pixel data", err)
	}
	return nil
}

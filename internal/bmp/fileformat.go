// BMP-specific structs and types
package bmp

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	FileHeaderSize = 14 // Size of BITMAPFILEHEADER on disk
	DibHeaderSize  = 40 // Size of BITMAPINFOHEADER on disk

	// Default offset of the pixel array (no palette)
	HeadersSize = FileHeaderSize + DibHeaderSize

	BitCount = 24 // The only supported bits-per-pixel
	BIRGB    = 0  // Uncompressed (the only supported compression)
)

// The FileHeader structure contains information about the type, size,
// and layout of a file that contains a DIB [device-independent bitmap].
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapfileheader
type FileHeader struct {
	Type      [2]byte // The file type: must be 0x4d42 (ASCII string "BM").
	Size      uint32  // The size, in bytes, of the bitmap file.
	Reserved1 uint16  // Reserved; ignored on read, zero when generated.
	Reserved2 uint16  // Reserved; ignored on read, zero when generated.
	OffBits   uint32  // Bitmap File Offset (In bytes) to Pixel Arrays
}

// The DibHeader structure (BITMAPINFOHEADER) contains information about the
// dimensions and color format of DIB [device-independent bitmap].
type DibHeader struct {
	Size            uint32 // The number of bytes required by the structure.
	Width           int32  // The width of the bitmap, in pixels.
	Height          int32  // The height of the bitmap, in pixels (rows, bottom-up on disk)
	Planes          uint16 // The number of planes for the target device.
	BitCount        uint16 // The number of bits-per-pixel.
	Compression     uint32 // The type of compression
	SizeImage       uint32 // The size of the image (in bytes).
	XPixelsPerM     int32  // The horizontal resolution, in pixels-per-meter.
	YPixelsPerM     int32  // The vertical resolution, in pixels-per-meter.
	ColorsUsed      uint32 // Number of color indexes that are actually used by bitmap.
	ColorsImportant uint32 // Number of color indexes required for displaying the bitmap.
}

// HasSignature reports whether the header carries the "BM" signature.
func (h *FileHeader) HasSignature() bool {
	return h.Type == [2]byte{'B', 'M'}
}

// ParseFileHeader decodes and validates the first 14 bytes of a bitmap file.
func ParseFileHeader(b []byte) (FileHeader, error) {
	var h FileHeader
	if len(b) < FileHeaderSize {
		return h, ioError("file header", io.ErrUnexpectedEOF)
	}

	if _, err := binary.Decode(b[:FileHeaderSize], binary.LittleEndian, &h); err != nil {
		return FileHeader{}, ioError("file header", err)
	}

	// Verify that this is a .BMP file by checking bitmap id (0x4d42)
	if !h.HasSignature() {
		return FileHeader{}, fmt.Errorf("%w: got %q", ErrInvalidSignature, h.Type[:])
	}
	if h.Size == 0 {
		return FileHeader{}, ErrEmptyFile
	}
	if h.OffBits == 0 {
		return FileHeader{}, ErrMissingPixelOffset
	}

	return h, nil
}

// ParseDibHeader decodes and validates a 40-byte BITMAPINFOHEADER.
// Only 24-bit uncompressed bottom-up bitmaps are accepted.
func ParseDibHeader(b []byte) (DibHeader, error) {
	var h DibHeader
	if len(b) < DibHeaderSize {
		return h, ioError("dib header", io.ErrUnexpectedEOF)
	}

	if _, err := binary.Decode(b[:DibHeaderSize], binary.LittleEndian, &h); err != nil {
		return DibHeader{}, ioError("dib header", err)
	}

	switch {
	case h.Size < DibHeaderSize:
		return DibHeader{}, fmt.Errorf("%w: dib header length %d", ErrUnsupportedFormat, h.Size)
	case h.Planes != 1:
		return DibHeader{}, fmt.Errorf("%w: %d color planes", ErrUnsupportedFormat, h.Planes)
	case h.BitCount != BitCount:
		return DibHeader{}, fmt.Errorf("%w: %d bits per pixel, only 24 is supported", ErrUnsupportedFormat, h.BitCount)
	case h.Compression != BIRGB:
		return DibHeader{}, fmt.Errorf("%w: compression method %d", ErrUnsupportedFormat, h.Compression)
	case h.Width < 0 || h.Height < 0:
		return DibHeader{}, fmt.Errorf("%w: negative dimensions %dx%d", ErrUnsupportedFormat, h.Width, h.Height)
	}

	return h, nil
}

// MarshalBinary returns the 14-byte on-disk form of the header.
func (h *FileHeader) MarshalBinary() ([]byte, error) {
	return binary.Append(make([]byte, 0, FileHeaderSize), binary.LittleEndian, h)
}

// MarshalBinary returns the 40-byte on-disk form of the header.
func (h *DibHeader) MarshalBinary() ([]byte, error) {
	return binary.Append(make([]byte, 0, DibHeaderSize), binary.LittleEndian, h)
}

// NewHeaders creates fresh headers for a width x height bitmap with the
// pixel array directly after the headers.
func NewHeaders(width, height int) (FileHeader, DibHeader) {
	bfh := FileHeader{
		Type:    [2]byte{'B', 'M'},
		Size:    uint32(HeadersSize + PixelDataSize(width, height)), // Size of the whole bitmap file
		OffBits: HeadersSize,
	}
	bih := DibHeader{
		Size:      DibHeaderSize,
		Width:     int32(width),
		Height:    int32(height),
		Planes:    1,
		BitCount:  BitCount,
		SizeImage: uint32(3 * width * height),
	}
	return bfh, bih
}

// bmp package implements a reader and writer for 24-bit uncompressed
// bitmaps.
//
// Pixels are kept top-down in a PixelGrid; the bottom-up, padded on-disk
// layout only exists while decoding and encoding.
package bmp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/anas-shakeel/bmp24/internal/utils"
)

// State is the lifecycle state of an Image.
type State int

const (
	Uninitialized State = iota
	Loading
	Loaded
	Failed
	Released
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	case Released:
		return "released"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Image is a 24-bit bitmap. The zero value is an uninitialized image that
// can be loaded with Load.
type Image struct {
	Filename string
	BFHeader FileHeader
	BIHeader DibHeader
	Stride   int
	Padding  int
	Extra    []byte // Bytes between the DIB header and the pixel array, kept as read
	Grid     *PixelGrid

	state State
}

// NewImage creates a zero-filled (black) width x height bitmap. Its headers
// are left empty, so they are generated when the image is encoded.
func NewImage(width, height int) (*Image, error) {
	grid, err := NewPixelGrid(width, height)
	if err != nil {
		return nil, err
	}

	return &Image{
		Stride:  RowStride(width),
		Padding: PaddingBytes(width),
		Grid:    grid,
		state:   Loaded,
	}, nil
}

// Decode reads a bitmap from r.
func Decode(r io.ReadSeeker) (*Image, error) {
	b := &Image{}
	if err := b.Load(r); err != nil {
		return nil, err
	}
	return b, nil
}

// Reads a Bitmap file
func ReadBitmap(filename string) (*Image, error) {
	// Open the file
	file, err := os.Open(filename)
	if err != nil {
		return nil, ioError("open", err)
	}
	defer file.Close()

	b := &Image{Filename: filename}
	if err := b.Load(file); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return b, nil
}

// State returns the lifecycle state of the image.
func (b *Image) State() State {
	if b == nil {
		return Uninitialized
	}
	return b.state
}

// Load decodes the bitmap in r into b. r is rewound to its start first.
// b must be uninitialized or released; on failure b holds no pixels and is
// left in the Failed state.
func (b *Image) Load(r io.ReadSeeker) error {
	if b == nil {
		return ErrNullImage
	}
	if b.state != Uninitialized && b.state != Released {
		return fmt.Errorf("%w: image is %v", ErrAlreadyLoaded, b.state)
	}

	b.state = Loading
	loaded, err := load(r)
	if err != nil {
		b.Grid, b.Extra = nil, nil
		b.state = Failed
		Logger().Debug("bmp: load failed", "file", b.Filename, "err", err)
		return err
	}

	b.BFHeader, b.BIHeader = loaded.BFHeader, loaded.BIHeader
	b.Stride, b.Padding = loaded.Stride, loaded.Padding
	b.Extra, b.Grid = loaded.Extra, loaded.Grid
	b.state = Loaded

	Logger().Debug("bmp: loaded",
		"file", b.Filename,
		"width", b.Grid.Width,
		"height", b.Grid.Height,
		"stride", b.Stride,
		"offset", b.BFHeader.OffBits)
	return nil
}

// load reads headers and pixels into a fresh Image that is only handed out
// once complete.
func load(r io.ReadSeeker) (*Image, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, ioError("seek", err)
	}

	var hdr [HeadersSize]byte

	// Read File Header
	if err := readFull(r, hdr[:FileHeaderSize], "file header"); err != nil {
		return nil, err
	}
	bfHeader, err := ParseFileHeader(hdr[:FileHeaderSize])
	if err != nil {
		return nil, err
	}

	// READ Info Header OR (more commonly) DIB Header!
	if err := readFull(r, hdr[FileHeaderSize:], "dib header"); err != nil {
		return nil, err
	}
	biHeader, err := ParseDibHeader(hdr[FileHeaderSize:])
	if err != nil {
		return nil, err
	}

	if bfHeader.OffBits < HeadersSize {
		return nil, fmt.Errorf("%w: offset %d overlaps the headers", ErrMissingPixelOffset, bfHeader.OffBits)
	}

	// Keep whatever sits between the headers and the pixel array (extended
	// header fields, color masks). The buffer grows with the data actually read.
	var extra []byte
	if gap := int64(bfHeader.OffBits) - HeadersSize; gap > 0 {
		var buf bytes.Buffer
		if _, err := io.CopyN(&buf, r, gap); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, ioError("header gap", err)
		}
		extra = buf.Bytes()
	}

	width, height := int(biHeader.Width), int(biHeader.Height)
	if err := checkSize(width, height); err != nil {
		return nil, err
	}

	// The grid is allocated only once every pixel byte has been read
	block, err := readPixelBlock(r, width, height)
	if err != nil {
		return nil, err
	}
	grid, err := NewPixelGrid(width, height)
	if err != nil {
		return nil, err
	}
	decodeBlock(block, grid)

	return &Image{
		BFHeader: bfHeader,
		BIHeader: biHeader,
		Stride:   RowStride(width),
		Padding:  PaddingBytes(width),
		Extra:    extra,
		Grid:     grid,
	}, nil
}

func readFull(r io.Reader, buf []byte, what string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return ioError(what, err)
	}
	return nil
}

// check returns ErrNullImage unless b holds pixels.
func (b *Image) check() error {
	if b == nil || b.state != Loaded || b.Grid == nil {
		return ErrNullImage
	}
	return nil
}

// Headers returns the headers Encode would write and whether they are the
// stored ones (true) or freshly generated (false). Stored headers are used
// when they carry a valid signature and describe the grid's dimensions.
// b must hold pixels.
func (b *Image) Headers() (FileHeader, DibHeader, bool) {
	if b.BFHeader.HasSignature() &&
		int(b.BIHeader.Width) == b.Grid.Width &&
		int(b.BIHeader.Height) == b.Grid.Height {
		return b.BFHeader, b.BIHeader, true
	}

	bfh, bih := NewHeaders(b.Grid.Width, b.Grid.Height)
	return bfh, bih, false
}

// Encode writes the bitmap to w: headers first, then the pixel array.
func (b *Image) Encode(w io.Writer) error {
	if err := b.check(); err != nil {
		return err
	}

	bfh, bih, stored := b.Headers()
	header, err := bfh.MarshalBinary()
	if err != nil {
		return err
	}
	dib, err := bih.MarshalBinary()
	if err != nil {
		return err
	}
	header = append(header, dib...)
	if stored {
		header = append(header, b.Extra...)
	}

	// Write File Header and Info Header
	if _, err := w.Write(header); err != nil {
		return ioError("headers", err)
	}

	// Write the pixels (BottomUp: last row first)
	if err := EncodePixels(w, b.Grid); err != nil {
		return err
	}

	Logger().Debug("bmp: encoded",
		"file", b.Filename,
		"width", b.Grid.Width,
		"height", b.Grid.Height,
		"stored_headers", stored)
	return nil
}

// Saves the bitmap image onto local disk
func (b *Image) Save(filename string) (err error) {
	if err := b.check(); err != nil {
		return err
	}

	newBitmap, err := os.Create(filename)
	if err != nil {
		return ioError("create", err)
	}
	defer func() {
		if cerr := newBitmap.Close(); cerr != nil && err == nil {
			err = ioError("close", cerr)
		}
	}()

	// Create a buffer (to reduce syscalls)
	w := bufio.NewWriter(newBitmap)
	if err := b.Encode(w); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	// Write buffer to disk
	if err := w.Flush(); err != nil {
		return ioError("flush", err)
	}
	return nil
}

// Release drops the pixel buffer. The image can be loaded again afterwards.
func (b *Image) Release() {
	if b == nil {
		return
	}
	b.Grid = nil
	b.Extra = nil
	b.state = Released
}

// Width returns the width in pixels, or 0 for an image without pixels.
func (b *Image) Width() int {
	if b.check() != nil {
		return 0
	}
	return b.Grid.Width
}

// Height returns the height in pixels, or 0 for an image without pixels.
func (b *Image) Height() int {
	if b.check() != nil {
		return 0
	}
	return b.Grid.Height
}

// At returns the pixel at (x, y); (0, 0) is the top-left pixel.
func (b *Image) At(x, y int) (Pixel, error) {
	if err := b.check(); err != nil {
		return Pixel{}, err
	}
	return b.Grid.At(x, y)
}

// Set replaces the pixel at (x, y); (0, 0) is the top-left pixel.
func (b *Image) Set(x, y int, p Pixel) error {
	if err := b.check(); err != nil {
		return err
	}
	return b.Grid.Set(x, y, p)
}

// Resize reallocates the pixel buffer as a black width x height grid and
// updates the metadata.
func (b *Image) Resize(width, height int) error {
	if err := b.check(); err != nil {
		return err
	}
	if err := b.Grid.Resize(width, height); err != nil {
		return err
	}
	b.UpdateMeta()
	return nil
}

// Returns a Copy of the bitmap image
func (b *Image) Copy() (*Image, error) {
	if err := b.check(); err != nil {
		return nil, err
	}

	newBitmap := *b
	newBitmap.Grid = b.Grid.Clone()
	if b.Extra != nil {
		newBitmap.Extra = append([]byte(nil), b.Extra...)
	}
	return &newBitmap, nil
}

// Updates the bitmap metadata (based on pixels)
func (b *Image) UpdateMeta() {
	width, height := b.Grid.Width, b.Grid.Height
	b.Stride = RowStride(width)
	b.Padding = PaddingBytes(width)

	// Generated headers are computed on Encode
	if !b.BFHeader.HasSignature() {
		return
	}

	sizeImage := uint32(PixelDataSize(width, height))
	b.BFHeader.Size = b.BFHeader.OffBits + sizeImage // Size of the bitmap file
	b.BIHeader.Width = int32(width)
	b.BIHeader.Height = int32(height)
	b.BIHeader.SizeImage = sizeImage
}

// Returns an image containing a single channel of the source image.
// channel can one of (`red`, `green`, and `blue`)
func (b *Image) GetChannel(channel string) (*Image, error) {
	var keep func(p Pixel) Pixel
	switch channel {
	case "red":
		keep = func(p Pixel) Pixel { return Pixel{R: p.R} }
	case "green":
		keep = func(p Pixel) Pixel { return Pixel{G: p.G} }
	case "blue":
		keep = func(p Pixel) Pixel { return Pixel{B: p.B} }
	default:
		return nil, errors.New("invalid color channel: only red, green, and blue are supported")
	}

	newBitmap, err := b.Copy()
	if err != nil {
		return nil, err
	}

	// Turn the channels to zero except requested one!
	for i, p := range newBitmap.Grid.Pix {
		newBitmap.Grid.Pix[i] = keep(p)
	}
	return newBitmap, nil
}

// Print the bitmap in terminal. Use for small images only
func (b *Image) PrintBitmap(w io.Writer) error {
	if err := b.check(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for y := range b.Grid.Height {
		for _, pixel := range b.Grid.Row(y) {
			bw.WriteString(utils.ColoredBlock("  ", int(pixel.R), int(pixel.G), int(pixel.B)))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Print the Metadata bitmap in terminal. (in human-readable format)
func (b *Image) PrintMetadata(w io.Writer) error {
	if err := b.check(); err != nil {
		return err
	}

	bfh, bih, stored := b.Headers()
	mode := "generated"
	if stored {
		mode = "stored"
	}

	_, err := fmt.Fprintf(w,
		"Filename: \t%v\n"+
			"Headers: \t%v\n"+
			"Filesize: \t%v bytes\n"+
			"Width: \t\t%v px\n"+
			"Height: \t%v px\n"+
			"BitCount: \t%vbits\n"+
			"PixelOffset: \t%v bytes\n"+
			"PixelCount: \t%v pixels\n"+
			"Stride: \t%v bytes\n"+
			"Padding: \t%v bytes\n",
		b.Filename, mode, bfh.Size, bih.Width, bih.Height, bih.BitCount,
		bfh.OffBits, b.Grid.Width*b.Grid.Height, b.Stride, b.Padding)
	return err
}

package bmp

const bytesPerPixel = BitCount / 8

// PaddingBytes returns the number of zero bytes appended to each row of a
// width-pixel bitmap so that the row length is a multiple of 4.
func PaddingBytes(width int) int {
	return (4 - (bytesPerPixel*width)%4) % 4
}

// RowStride returns the total bytes in a row (incl. padding).
func RowStride(width int) int {
	return bytesPerPixel*width + PaddingBytes(width)
}

// PixelDataSize returns the size of the on-disk pixel array.
func PixelDataSize(width, height int) int {
	return RowStride(width) * height
}

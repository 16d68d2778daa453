// Package pixel provides the immutable RGBA8 buffer shared by every stage of
// the edge-detection pipeline.
//
// A Buffer is a width×height grid of non-premultiplied RGBA samples stored
// row-major with the origin at the top-left corner. Buffers are never mutated
// after construction: accessors that expose sample data return copies, and
// pipeline stages always allocate a new Buffer for their output.
//
// # Construction
//
// Buffers are created either from a flat sample slice (New), which is
// validated against the declared dimensions, or from any image.Image
// (FromImage), which is converted to 8-bit non-premultiplied RGBA.
//
//	buf, err := pixel.New(2, 1, []uint8{255, 0, 0, 255, 0, 255, 0, 255})
//	if errors.Is(err, pixel.ErrDimensionMismatch) {
//	    // samples do not describe a 2x1 image
//	}
//
// # Channel Projection
//
// Detection works on a single scalar channel. Project extracts one channel as
// float64 values; the detector uses the red channel as its luminance proxy,
// which is exact only for inputs that are already grayscale.
package pixel

// Package imaging holds the host-side image plumbing for the edge detection
// server: decoding and caching source files, cropping and rescaling a region
// before detection, parsing colors, and encoding results as base64 PNG.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner.
// For regions, (x1,y1) is inclusive (top-left) and (x2,y2) is exclusive
// (bottom-right).
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Cached images are shared
// and must not be mutated; Prepare always returns a fresh image.
//
// # Supported Formats
//
// PNG, JPEG and GIF come from the standard library. BMP, TIFF and WebP are
// registered from golang.org/x/image.
package imaging

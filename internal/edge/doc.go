// Package edge implements gradient-based edge detection over pixel.Buffer
// values and renders the result for display.
//
// # Pipeline
//
// A run has four stages, each returning new values:
//
//  1. Pre-filters (optional): any Filter, e.g. Grayscale or GaussianBlur.
//  2. Detection: the red channel is convolved with the X and Y kernels of a
//     registered operator (default "sobel"); per window
//     magnitude = sqrt(sumX² + sumY²) and direction = atan2(sumX, sumY).
//     Magnitudes at or below the threshold become (0, 0).
//  3. Thinning (optional): a Thinner refines the magnitude map.
//  4. Rendering: Overlay paints edges in a highlight color over the source;
//     MagnitudeMap writes magnitude/Attenuation to RGB or to alpha only.
//
// # Window Indexing
//
// Convolution is truncated: window i is anchored at flat pixel index i and
// only windows that fit inside the sample slice are computed, so a k×k kernel
// yields (k-1)*width + (k-1) fewer entries than pixels. The renderer pads the
// output back to full size by emitting filler pixels before the first window.
// This keeps output compatible with existing consumers even though it shifts
// rendered edges down and right relative to the window centre.
//
// # Errors
//
// Failures are returned, never logged: pixel.ErrDimensionMismatch,
// convolution.ErrUnknownKernel, ErrPreconditionNotMet and ErrInvalidConfig,
// wrapped with context and testable with errors.Is.
package edge

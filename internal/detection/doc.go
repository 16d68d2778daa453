// Package detection provides the post-processing stages that run on a
// gradient map produced by package edge.
//
//   - NMSThinner: non-maximum suppression along the gradient direction,
//     implementing edge.Thinner.
//   - HoughTransform: straight-line extraction with the (rho, theta) Hough
//     transform, implementing edge.LineTransform.
//
// # Window Grid
//
// A magnitude map holds one entry per convolution window, indexed by the
// window's top-left anchor in the source image's flat pixel order. Both
// stages treat it as a grid buf.Width() wide. NMSThinner compares windows
// in that grid directly; HoughTransform votes at each window's center
// pixel, which is the anchor shifted by half the kernel size on both axes.
//
// Both stages return edge.ErrPreconditionNotMet for an empty magnitude map
// and pixel.ErrDimensionMismatch when the map does not fit the buffer.
package detection

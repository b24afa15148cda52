// Package imaging provides the image primitives used by the clock reader.
//
// This package wraps the image libraries the detector depends on: decoding and
// encoding of corpus images and debug artifacts, grayscale conversion and
// thresholding into a binary silhouette of the clock hands, color parsing, and
// overlay drawing. It also owns the polar coordinate transform shared by the
// hand matcher and the overlay renderer.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// Polar positions are expressed as an angle in degrees and a radius in pixels
// around a center point. With an angle offset of 90 degrees (DialOffsetDeg),
// 0 degrees points at 12 o'clock and angles grow clockwise, which is the
// convention used everywhere in the detector.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and return new images rather than modifying their inputs, so they
// can be called concurrently on different images.
//
// # Supported Formats
//
// PNG, JPEG, GIF, BMP, TIFF and WebP images can be decoded. Debug artifacts and
// result images can be written as PNG, JPEG, GIF, BMP or TIFF; the format is
// chosen from the file extension.
package imaging

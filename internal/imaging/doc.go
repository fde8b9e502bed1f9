// Package imaging turns digit pictures into intensity grids and back.
//
// A Grid is the in-memory form every classifier operation works on: a row-major
// slice of non-negative intensities, where larger values mean more ink. Grids
// produced from files are normalized the way the MNIST corpus was prepared: the
// stroke is cropped to its bounding box, scaled to fit a 20x20 box and centered
// on a 28x28 canvas, white ink on black.
//
// # Coordinate System
//
// Grid cells are addressed as (row, col):
//   - row: vertical position (0 = topmost)
//   - col: horizontal position (0 = leftmost)
//
// Reads outside the grid return 0, so two grids of different sizes can be
// compared cell by cell without bounds checks at the call site.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Grid values are plain data;
// callers that share a Grid must not mutate it.
//
// # Error Handling
//
// Functions return errors for file I/O and decoding failures and for PNG
// encoding failures when rendering. Normalization itself never fails: an image
// without ink normalizes to an all-zero grid.
package imaging

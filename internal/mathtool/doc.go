// Package mathtool implements the distance metrics used to compare digit grids.
//
// Two families are provided:
//
//   - Pixel metrics compare grids cell by cell (PixelDistance).
//   - Shape metrics compare the sets of foreground coordinates of two grids.
//     They are tolerant to small translations and stroke-thickness changes.
//
// # Shape Metrics
//
// All shape metrics are built from two directed measures between coordinate
// sets A and B, where d(p, B) is the Euclidean distance from p to the nearest
// point of B:
//
//	OneWayDistance(A, B)    = mean over p in A of d(p, B)
//	DirectedHausdorff(A, B) = max  over p in A of d(p, B)
//
// and combine both directions:
//
//	HausdorffSets      = max(DirectedHausdorff(A,B), DirectedHausdorff(B,A))
//	HausdorffSum       = OneWayDistance(A,B) + OneWayDistance(B,A)
//	ModifiedHausdorff  = max(OneWayDistance(A,B), OneWayDistance(B,A))   (D22)
//	AverageHausdorff   = (OneWayDistance(A,B) + OneWayDistance(B,A)) / 2 (D23)
//
// D22 and D23 follow Dubuisson and Jain, "A Modified Hausdorff Distance for
// Object Matching" (1994).
//
// # Empty Sets
//
// Every symmetric shape metric resolves empty inputs the same way:
//   - both sets empty: 0
//   - exactly one set empty: +Inf
//
// None of the functions in this package return errors or panic on empty input.
package mathtool

// Package knn classifies digit grids by majority vote among the k nearest
// samples of a fixed reference set.
//
// The reference set and k are fixed when the Engine is built. Queries are
// compared against every reference sample (exact, brute force) under one of a
// closed set of metrics:
//
//	euclidean      pixelwise Euclidean norm (default)
//	hausdorff_sum  sum of the two mean one-way distances
//	d22            max of the two mean one-way distances
//	d23            mean of the two mean one-way distances
//
// Foreground coordinates of the reference samples are extracted once at
// construction. The Engine holds no mutable state after New returns, so it is
// safe for concurrent use.
package knn

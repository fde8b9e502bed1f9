// Package dataset supplies labelled digit grids to the classifier.
//
// A Dataset is two aligned slices: Images[i] is labelled Labels[i], and the
// index i is the identity reported for nearest neighbors. Providers
// materialize the first size samples of a source:
//
//   - MNISTProvider: the MNIST training or testing set embedded in
//     github.com/unixpickle/mnist, no files required.
//   - IDXProvider: the original MNIST IDX files, raw or gzipped.
//   - DirProvider: a directory tree <root>/<label>/<image file>.
//   - MemoryProvider: an already built Dataset, mostly for tests.
//
// Every provider fails with an error matching ErrInsufficientData when the
// source holds fewer than size samples.
package dataset

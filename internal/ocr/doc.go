// Package ocr reads a single handwritten digit with Tesseract.
//
// It is a second opinion next to the k-NN classifier: a normalized digit grid
// is rendered dark-on-light with a margin, upscaled, and passed to Tesseract
// with a digits-only whitelist in single-character page mode.
//
// # Prerequisites
//
// Tesseract and its English language data must be installed, and the package
// must be built with cgo:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng libtesseract-dev
//   - macOS: brew install tesseract
//
// Without cgo, RecognizeDigit returns ErrUnavailable and Info reports the
// backend as unavailable.
//
// # Temporary Files
//
// Tesseract reads from a file path, so every call writes one small PNG to the
// system temporary directory and removes it before returning.
package ocr

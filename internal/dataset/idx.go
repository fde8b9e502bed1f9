package dataset

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/ironsheep/digit-knn-mcp/internal/imaging"
)

// IDX magic numbers: unsigned byte payload, 3 and 1 dimensions.
const (
	idxImagesMagic = 0x00000803
	idxLabelsMagic = 0x00000801

	// maxIDXPixels bounds rows*cols of a single image.
	maxIDXPixels = 1 << 20
)

// ErrBadIDX is returned for malformed IDX streams.
var ErrBadIDX = errors.New("dataset: malformed idx data")

// IDXProvider reads the MNIST distribution format, e.g.
// train-images-idx3-ubyte.gz and train-labels-idx1-ubyte.gz.
// Gzipped files are detected by their magic bytes, not their extension.
type IDXProvider struct {
	ImagesPath string
	LabelsPath string
}

// Load decodes the first size images and labels.
func (p IDXProvider) Load(size int) (*Dataset, error) {
	if size < 0 {
		size = 0
	}

	imgFile, err := openIDX(p.ImagesPath)
	if err != nil {
		return nil, err
	}
	defer imgFile.Close()

	images, err := ReadIDXImages(imgFile, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.ImagesPath, err)
	}

	lblFile, err := openIDX(p.LabelsPath)
	if err != nil {
		return nil, err
	}
	defer lblFile.Close()

	labels, err := ReadIDXLabels(lblFile, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.LabelsPath, err)
	}

	ds := &Dataset{Images: images, Labels: labels}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// ReadIDXImages decodes the first limit images of an idx3-ubyte stream.
// Pixel bytes are scaled to [0,1].
func ReadIDXImages(r io.Reader, limit int) ([]imaging.Grid, error) {
	var hdr [4]uint32
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: reading image header: %v", ErrBadIDX, err)
	}
	if hdr[0] != idxImagesMagic {
		return nil, fmt.Errorf("%w: image magic %#08x", ErrBadIDX, hdr[0])
	}
	if pixels := uint64(hdr[2]) * uint64(hdr[3]); pixels == 0 || pixels > maxIDXPixels {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrBadIDX, hdr[2], hdr[3])
	}
	count, rows, cols := int(hdr[1]), int(hdr[2]), int(hdr[3])
	if limit > count {
		return nil, &ShortageError{Requested: limit, Available: count}
	}

	buf := make([]byte, rows*cols)
	grids := make([]imaging.Grid, limit)
	for i := range grids {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%w: image %d: %v", ErrBadIDX, i, err)
		}
		g := imaging.NewGrid(cols, rows)
		for j, b := range buf {
			g.Pix[j] = float64(b) / 255.0
		}
		grids[i] = g
	}
	return grids, nil
}

// ReadIDXLabels decodes the first limit labels of an idx1-ubyte stream.
func ReadIDXLabels(r io.Reader, limit int) ([]int, error) {
	var hdr [2]uint32
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: reading label header: %v", ErrBadIDX, err)
	}
	if hdr[0] != idxLabelsMagic {
		return nil, fmt.Errorf("%w: label magic %#08x", ErrBadIDX, hdr[0])
	}
	count := int(hdr[1])
	if limit > count {
		return nil, &ShortageError{Requested: limit, Available: count}
	}

	buf := make([]byte, limit)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: labels: %v", ErrBadIDX, err)
	}
	labels := make([]int, limit)
	for i, b := range buf {
		labels[i] = int(b)
	}
	return labels, nil
}

type idxFile struct {
	io.Reader
	closers []io.Closer
}

func (f *idxFile) Close() error {
	var first error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openIDX opens a file and layers a gzip reader on top when the content is gzipped.
func openIDX(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open idx file: %w", err)
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, fmt.Errorf("failed to read idx file: %w", err)
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return &idxFile{Reader: zr, closers: []io.Closer{f, zr}}, nil
	}
	return &idxFile{Reader: br, closers: []io.Closer{f}}, nil
}

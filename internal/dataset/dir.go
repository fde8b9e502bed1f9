package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/digit-knn-mcp/internal/imaging"
)

// DirProvider loads labelled digit pictures laid out as <Root>/<label>/<file>.
//
// Label directories are named 0 through 9; other entries are ignored. Samples
// are taken round-robin across labels (first file of every label, then the
// second, ...) with files in name order, so any prefix is roughly balanced and
// the ordering is stable across runs.
type DirProvider struct {
	Root string

	// Workers bounds concurrent decodes. Values below 1 mean 1.
	Workers int

	// Normalize is applied to every decoded picture.
	Normalize imaging.NormalizeOptions

	// Cache is optional; a private cache is used when nil.
	Cache *imaging.ImageCache
}

type dirEntry struct {
	path  string
	label int
}

// Load decodes the first size samples in round-robin order.
func (p DirProvider) Load(size int) (*Dataset, error) {
	entries, err := p.scan()
	if err != nil {
		return nil, err
	}
	if size > len(entries) {
		return nil, &ShortageError{Requested: size, Available: len(entries)}
	}
	if size < 0 {
		size = 0
	}
	entries = entries[:size]

	cache := p.Cache
	if cache == nil {
		cache = imaging.NewImageCache()
	}

	ds := &Dataset{
		Images: make([]imaging.Grid, len(entries)),
		Labels: make([]int, len(entries)),
	}

	var g errgroup.Group
	g.SetLimit(max(1, p.Workers))
	for i, e := range entries {
		ds.Labels[i] = e.label
		g.Go(func() error {
			grid, err := imaging.LoadGrid(cache, e.path, p.Normalize)
			if err != nil {
				return fmt.Errorf("%s: %w", e.path, err)
			}
			ds.Images[i] = grid
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}

// scan lists image files per label and interleaves them.
func (p DirProvider) scan() ([]dirEntry, error) {
	dirs, err := os.ReadDir(p.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory: %w", err)
	}

	var perLabel [MaxLabel + 1][]string
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		label, err := strconv.Atoi(d.Name())
		if err != nil || label < MinLabel || label > MaxLabel {
			continue
		}
		files, err := os.ReadDir(filepath.Join(p.Root, d.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read label directory: %w", err)
		}
		for _, f := range files {
			if f.IsDir() || !imaging.IsImageFile(f.Name()) {
				continue
			}
			perLabel[label] = append(perLabel[label], filepath.Join(p.Root, d.Name(), f.Name()))
		}
		sort.Strings(perLabel[label])
	}

	var entries []dirEntry
	for round := 0; ; round++ {
		added := false
		for label := range perLabel {
			if round < len(perLabel[label]) {
				entries = append(entries, dirEntry{path: perLabel[label][round], label: label})
				added = true
			}
		}
		if !added {
			break
		}
	}
	return entries, nil
}

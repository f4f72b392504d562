// Package scanner walks directory trees looking for build artifacts and
// caches recognized by the rule catalog. Matched directories are opaque:
// their size is aggregated in one pass and nothing inside them is
// classified again, so every file is visited at most once.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	wildcard "github.com/IGLOU-EU/go-wildcard"
	"golang.org/x/sync/errgroup"

	"github.com/kurkanduk/gigabroom/internal/catalog"
)

// Scanner discovers deletable artifacts under a root. A Scanner is safe
// for a single Scan at a time; counters reset on each call.
type Scanner struct {
	catalog *catalog.Catalog
	index   Index
	log     *slog.Logger

	visited atomic.Int64
	found   atomic.Int64

	mu       sync.Mutex
	warnings []string
}

// New creates a Scanner over the given catalog. The index may be nil,
// disabling the index fast path entirely.
func New(cat *catalog.Catalog, index Index, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{catalog: cat, index: index, log: log}
}

// Visited returns the number of directory entries examined so far.
// Safe to call concurrently with a running Scan.
func (s *Scanner) Visited() int64 { return s.visited.Load() }

// Found returns the number of artifacts discovered so far.
func (s *Scanner) Found() int64 { return s.found.Load() }

// Warnings returns per-path problems encountered during the last scan.
func (s *Scanner) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

func (s *Scanner) warn(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.warnings) < 500 {
		s.warnings = append(s.warnings, msg)
	}
}

// Scan walks root and returns the matched artifacts. It validates options
// before any I/O, honors ctx at every directory boundary, and never
// follows symbolic links.
func (s *Scanner) Scan(ctx context.Context, root string, opts Options) (*Result, error) {
	if opts.MaxDepth < 0 || opts.MinSize < 0 {
		return nil, fmt.Errorf("%w: max depth and min size must be non-negative", ErrInvalidOptions)
	}

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidOptions, root)
	}

	s.visited.Store(0)
	s.found.Store(0)
	s.mu.Lock()
	s.warnings = nil
	s.mu.Unlock()

	start := time.Now()

	var entries []Entry
	if opts.IndexMode && s.index != nil {
		entries, err = s.indexScan(ctx, root, opts)
		if err != nil {
			s.log.Warn("index scan failed, falling back to walk", "root", root, "err", err)
			entries, err = s.walkScan(ctx, root, opts)
		}
	} else {
		entries, err = s.walkScan(ctx, root, opts)
	}
	if err != nil {
		return nil, err
	}

	// Stable result order regardless of worker interleaving.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	kept := entries[:0]
	var total int64
	for _, e := range entries {
		if !opts.keeps(e) {
			continue
		}
		kept = append(kept, e)
		total += e.Size
	}

	return &Result{
		Root:      root,
		Params:    opts.Params,
		Entries:   kept,
		TotalSize: total,
		ScannedAt: time.Now(),
		Elapsed:   time.Since(start),
		Visited:   s.visited.Load(),
	}, nil
}

// keeps reports whether an already-matched entry survives the output
// filters. Filtered entries still count toward Visited statistics.
func (o Options) keeps(e Entry) bool {
	if e.Size < o.MinSize {
		return false
	}
	if len(o.Categories) > 0 {
		ok := false
		for _, c := range o.Categories {
			if e.Category == c {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if o.NameGlob != "" && !wildcard.Match(o.NameGlob, filepath.Base(e.Path)) {
		return false
	}
	return true
}

// walkScan fans out one worker per top-level directory under root and
// merges their slices after all workers finish. Workers share nothing but
// the scanner's atomic counters.
func (s *Scanner) walkScan(ctx context.Context, root string, opts Options) ([]Entry, error) {
	top, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([][]Entry, len(top))
	for i, d := range top {
		if d.Type()&fs.ModeSymlink != 0 {
			continue
		}
		s.visited.Add(1)

		path := filepath.Join(root, d.Name())
		isDir := d.IsDir()

		if rule, ok := s.catalog.Match(path, isDir); ok {
			slot := i
			g.Go(func() error {
				if e, ok := s.snapshot(path, rule, isDir); ok {
					results[slot] = []Entry{e}
				}
				return nil
			})
			continue
		}

		if !isDir {
			continue
		}
		// The subtree's children sit at depth 2.
		if opts.MaxDepth != 0 && opts.MaxDepth < 2 {
			continue
		}
		slot := i
		g.Go(func() error {
			var acc []Entry
			err := s.walkDir(ctx, path, 2, opts, &acc)
			results[slot] = acc
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []Entry
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}

// walkDir is a depth-first walk of one subtree. On a catalog match the
// entry is recorded and the walk does not descend into it. depth is how
// many levels below the scan root the children of dir sit; a positive
// MaxDepth means entries deeper than MaxDepth are never classified.
func (s *Scanner) walkDir(ctx context.Context, dir string, depth int, opts Options, acc *[]Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	children, err := os.ReadDir(dir)
	if err != nil {
		s.warn("cannot read " + dir + ": " + err.Error())
		return nil
	}

	for _, d := range children {
		if d.Type()&fs.ModeSymlink != 0 {
			continue
		}
		s.visited.Add(1)

		path := filepath.Join(dir, d.Name())
		isDir := d.IsDir()

		if rule, ok := s.catalog.Match(path, isDir); ok {
			if e, ok := s.snapshot(path, rule, isDir); ok {
				*acc = append(*acc, e)
			}
			continue
		}

		if isDir && (opts.MaxDepth == 0 || depth < opts.MaxDepth) {
			// path's children sit at depth+1, still within bounds.
			if err := s.walkDir(ctx, path, depth+1, opts, acc); err != nil {
				return err
			}
		}
	}
	return nil
}

// snapshot measures a matched path and freezes it into an Entry.
func (s *Scanner) snapshot(path string, rule catalog.Rule, isDir bool) (Entry, bool) {
	info, err := os.Lstat(path)
	if err != nil {
		s.warn("cannot stat " + path + ": " + err.Error())
		return Entry{}, false
	}

	var size int64
	if isDir {
		size = s.dirSize(path)
	} else {
		size = info.Size()
	}

	s.found.Add(1)
	return Entry{
		Path:     path,
		Category: rule.Category,
		Size:     size,
		ModTime:  info.ModTime(),
		IsDir:    isDir,
		Danger:   rule.Category.Danger(),
	}, true
}

// dirSize sums regular file sizes below path, skipping symlinks.
// Unreadable subtrees contribute what could be read.
func (s *Scanner) dirSize(path string) int64 {
	var size int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				size += info.Size()
			}
		}
		return nil
	})
	return size
}

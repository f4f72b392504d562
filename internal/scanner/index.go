package scanner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Index answers "which paths under root carry this base name" from an
// OS-maintained content index. It is a fast-path strategy: results are
// re-verified against the catalog, and any failure falls back to the
// filesystem walk.
type Index interface {
	// Available reports whether the index can serve queries on this host.
	Available() bool

	// Query returns absolute paths under root whose base name equals name.
	Query(ctx context.Context, root, name string) ([]string, error)
}

// SystemIndex returns the platform's content index: Spotlight on macOS,
// an always-unavailable stub elsewhere.
func SystemIndex() Index {
	if runtime.GOOS == "darwin" {
		return &spotlightIndex{}
	}
	return unavailableIndex{}
}

type unavailableIndex struct{}

func (unavailableIndex) Available() bool { return false }
func (unavailableIndex) Query(context.Context, string, string) ([]string, error) {
	return nil, ErrIndexUnavailable
}

// spotlightIndex queries the macOS Spotlight metadata store via mdfind.
type spotlightIndex struct {
	once  sync.Once
	found bool
}

func (i *spotlightIndex) Available() bool {
	i.once.Do(func() {
		_, err := exec.LookPath("mdfind")
		i.found = err == nil
	})
	return i.found
}

func (i *spotlightIndex) Query(ctx context.Context, root, name string) ([]string, error) {
	query := fmt.Sprintf("kMDItemFSName == '%s'", name)
	out, err := exec.CommandContext(ctx, "mdfind", "-onlyin", root, query).Output()
	if err != nil {
		return nil, fmt.Errorf("mdfind %q: %w", name, err)
	}

	var paths []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

// indexScan asks the index for every directory marker name the catalog
// knows, then re-verifies each hit through normal rule matching so the
// index can never introduce a classification the walk would not have
// produced. Nested hits inside other artifact directories are dropped to
// preserve the opaque-subtree invariant.
func (s *Scanner) indexScan(ctx context.Context, root string, opts Options) ([]Entry, error) {
	if !s.index.Available() {
		return nil, ErrIndexUnavailable
	}

	names := s.indexableNames()

	g, qctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	hits := make([][]string, len(names))
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			paths, err := s.index.Query(qctx, root, name)
			if err != nil {
				return err
			}
			hits[i] = paths
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var candidates []string
	for _, paths := range hits {
		for _, p := range paths {
			p = filepath.Clean(p)
			if seen[p] || !strings.HasPrefix(p, root+string(filepath.Separator)) {
				continue
			}
			if opts.MaxDepth != 0 && pathDepth(root, p) > opts.MaxDepth {
				continue
			}
			seen[p] = true
			candidates = append(candidates, p)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sg, _ := errgroup.WithContext(ctx)
	sg.SetLimit(workers)

	results := make([]*Entry, len(candidates))
	for i, path := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		i, path := i, path
		sg.Go(func() error {
			s.visited.Add(1)

			info, err := os.Lstat(path)
			if err != nil || info.Mode()&os.ModeSymlink != 0 {
				return nil
			}
			rule, ok := s.catalog.Match(path, info.IsDir())
			if !ok {
				return nil
			}
			if s.insideArtifact(root, path) {
				return nil
			}
			if e, ok := s.snapshot(path, rule, info.IsDir()); ok {
				results[i] = &e
			}
			return nil
		})
	}
	if err := sg.Wait(); err != nil {
		return nil, err
	}

	var entries []Entry
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries, nil
}

// indexableNames collects the exact directory marker names worth asking
// the index about. Suffix and path-fragment rules cannot be expressed as
// a name query, matching the walk's behavior for those is left to the
// fallback path.
func (s *Scanner) indexableNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, r := range s.catalog.Rules() {
		for _, n := range r.Names {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}

// pathDepth counts how many levels below root the path sits.
func pathDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// insideArtifact reports whether any ancestor of path, up to but not
// including root, is itself a matched artifact.
func (s *Scanner) insideArtifact(root, path string) bool {
	dir := filepath.Dir(path)
	for dir != root && strings.HasPrefix(dir, root) {
		if _, ok := s.catalog.Match(dir, true); ok {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return false
}

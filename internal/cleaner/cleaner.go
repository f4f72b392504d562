// Package cleaner deletes the artifacts a selection picked out of a scan.
// Deletion is best effort: one failing entry never aborts the run, it is
// recorded and the run moves on.
package cleaner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kurkanduk/gigabroom/internal/catalog"
	"github.com/kurkanduk/gigabroom/internal/scanner"
	"github.com/kurkanduk/gigabroom/internal/selection"
)

// Options controls a single Clean run.
type Options struct {
	// DryRun walks the full pipeline, including revalidation and safety
	// checks, but removes nothing.
	DryRun bool
	// Force authorizes deleting caution-level entries without a
	// per-category opt-in.
	Force bool
}

// Failure records one entry that could not be deleted.
type Failure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Skip records one entry the cleaner refused to touch.
type Skip struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report summarizes a Clean run. A dry run produces the same shape with
// BytesReclaimed zero.
type Report struct {
	DryRun         bool            `json:"dry_run"`
	Attempted      int             `json:"attempted"`
	Succeeded      int             `json:"succeeded"`
	Failed         []Failure       `json:"failed,omitempty"`
	Skipped        []Skip          `json:"skipped,omitempty"`
	Deleted        []scanner.Entry `json:"deleted,omitempty"`
	BytesPlanned   int64           `json:"bytes_planned"`
	BytesReclaimed int64           `json:"bytes_reclaimed"`
	Elapsed        time.Duration   `json:"elapsed_ns"`
}

// Partial reports whether some, but not all, attempted deletions failed.
func (r *Report) Partial() bool {
	return len(r.Failed) > 0 && r.Succeeded > 0
}

// AllFailed reports whether every attempted deletion failed.
func (r *Report) AllFailed() bool {
	return r.Attempted > 0 && r.Succeeded == 0 && len(r.Failed) > 0
}

// Cleaner removes artifacts. Entries are revalidated against the catalog
// immediately before removal so a stale selection cannot delete something
// that stopped looking like a build artifact, or that now classifies as a
// different category than the scan recorded.
type Cleaner struct {
	catalog   *catalog.Catalog
	log       *slog.Logger
	protected []string
	optIn     map[catalog.Category]bool
}

// New creates a Cleaner. A protected path is never deleted, directly or
// by removing a directory that contains it. Artifacts living under a
// protected directory are still fair game. optIn categories are treated
// as pre-authorized for caution-level deletion, as if each run had
// selected them explicitly.
func New(cat *catalog.Catalog, log *slog.Logger, protected []string, optIn ...catalog.Category) *Cleaner {
	if log == nil {
		log = slog.Default()
	}
	cleaned := make([]string, 0, len(protected))
	for _, p := range protected {
		cleaned = append(cleaned, filepath.Clean(p))
	}
	granted := make(map[catalog.Category]bool, len(optIn))
	for _, c := range optIn {
		granted[c] = true
	}
	return &Cleaner{catalog: cat, log: log, protected: cleaned, optIn: granted}
}

// Clean deletes the selected entries, deepest paths first so nested
// artifacts vanish before any parent that contains them. Cancellation
// stops between entries; already-deleted entries stay deleted.
func (c *Cleaner) Clean(ctx context.Context, sel *selection.Selection, opts Options) *Report {
	start := time.Now()
	rep := &Report{DryRun: opts.DryRun}

	entries := sel.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		di := strings.Count(entries[i].Path, string(os.PathSeparator))
		dj := strings.Count(entries[j].Path, string(os.PathSeparator))
		if di != dj {
			return di > dj
		}
		return entries[i].Path < entries[j].Path
	})

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			rep.Skipped = append(rep.Skipped, Skip{Path: e.Path, Reason: "cancelled"})
			continue
		}

		if e.Danger == catalog.Caution && !opts.Force && !sel.OptedIn(e.Category) && !c.optIn[e.Category] {
			rep.Skipped = append(rep.Skipped, Skip{
				Path:   e.Path,
				Reason: e.Category.String() + " requires --force or an explicit category selection",
			})
			continue
		}

		if p, hit := c.protectedBy(e.Path); hit {
			rep.Skipped = append(rep.Skipped, Skip{Path: e.Path, Reason: "protected path " + p})
			c.log.Warn("refusing to delete protected path", "path", e.Path, "protected", p)
			continue
		}

		rep.Attempted++

		info, err := os.Lstat(e.Path)
		if os.IsNotExist(err) {
			rep.Failed = append(rep.Failed, Failure{Path: e.Path, Reason: "no longer exists"})
			continue
		}
		if err != nil {
			rep.Failed = append(rep.Failed, Failure{Path: e.Path, Reason: err.Error()})
			continue
		}
		rule, ok := c.catalog.Match(e.Path, info.IsDir())
		if !ok {
			rep.Attempted--
			rep.Skipped = append(rep.Skipped, Skip{Path: e.Path, Reason: "no longer recognized as a build artifact"})
			c.log.Warn("entry stopped matching any rule, skipping", "path", e.Path)
			continue
		}
		if rule.Category != e.Category {
			rep.Attempted--
			rep.Skipped = append(rep.Skipped, Skip{
				Path:   e.Path,
				Reason: "now classifies as " + rule.Category.String() + ", was " + e.Category.String(),
			})
			c.log.Warn("entry changed category since the scan, skipping",
				"path", e.Path, "was", e.Category, "now", rule.Category)
			continue
		}

		rep.BytesPlanned += e.Size

		if opts.DryRun {
			rep.Succeeded++
			rep.Deleted = append(rep.Deleted, e)
			continue
		}

		if err := os.RemoveAll(e.Path); err != nil {
			rep.Failed = append(rep.Failed, Failure{Path: e.Path, Reason: err.Error()})
			c.log.Error("delete failed", "path", e.Path, "err", err)
			continue
		}

		rep.Succeeded++
		rep.BytesReclaimed += e.Size
		rep.Deleted = append(rep.Deleted, e)
		c.log.Debug("deleted", "path", e.Path, "size", e.Size)
	}

	rep.Elapsed = time.Since(start)
	return rep
}

// protectedBy returns the protected path the entry collides with, if
// any. A collision is the entry being a protected path or containing
// one; being inside a protected directory is not a collision.
func (c *Cleaner) protectedBy(path string) (string, bool) {
	path = filepath.Clean(path)
	for _, p := range c.protected {
		if path == p || within(p, path) {
			return p, true
		}
	}
	return "", false
}

// within reports whether child is strictly below parent.
func within(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

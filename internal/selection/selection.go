// Package selection builds the set of entries a clean operation will act
// on. A Selection is derived from exactly one scan result and never
// refers to paths outside it.
package selection

import (
	"path/filepath"

	wildcard "github.com/IGLOU-EU/go-wildcard"

	"github.com/kurkanduk/gigabroom/internal/catalog"
	"github.com/kurkanduk/gigabroom/internal/scanner"
)

// Selection is a mutable set of picked entries over one scan result.
// All operations are pure in-memory bookkeeping; re-selecting an entry
// is a no-op.
type Selection struct {
	result *scanner.Result
	picked map[string]bool
	optIn  map[catalog.Category]bool
}

// New creates an empty Selection over res.
func New(res *scanner.Result) *Selection {
	return &Selection{
		result: res,
		picked: make(map[string]bool),
		optIn:  make(map[catalog.Category]bool),
	}
}

// Result returns the scan result this selection was derived from.
func (s *Selection) Result() *scanner.Result { return s.result }

// Add selects entries by explicit path. Paths not present in the scan
// result are ignored, preserving the derivation invariant.
func (s *Selection) Add(paths ...string) {
	for _, p := range paths {
		p = filepath.Clean(p)
		if _, ok := s.result.EntryByPath(p); ok {
			s.picked[p] = true
		}
	}
}

// Remove deselects entries by path.
func (s *Selection) Remove(paths ...string) {
	for _, p := range paths {
		delete(s.picked, filepath.Clean(p))
	}
}

// Toggle flips one entry and reports whether it is now selected.
func (s *Selection) Toggle(path string) bool {
	path = filepath.Clean(path)
	if s.picked[path] {
		delete(s.picked, path)
		return false
	}
	s.Add(path)
	return s.picked[path]
}

// AddWhere selects every entry matching pred.
func (s *Selection) AddWhere(pred func(scanner.Entry) bool) {
	for _, e := range s.result.Entries {
		if pred(e) {
			s.picked[e.Path] = true
		}
	}
}

// AddCategory selects every entry of the category and records an explicit
// opt-in for it. Opting in is what authorizes deleting caution-level
// entries of that category without the force flag.
func (s *Selection) AddCategory(c catalog.Category) {
	s.optIn[c] = true
	s.AddWhere(func(e scanner.Entry) bool { return e.Category == c })
}

// AddAll selects every entry. It does NOT opt in to caution categories;
// those still require AddCategory or force at clean time.
func (s *Selection) AddAll() {
	s.AddWhere(func(scanner.Entry) bool { return true })
}

// AddMinSize selects entries of at least n bytes.
func (s *Selection) AddMinSize(n int64) {
	s.AddWhere(func(e scanner.Entry) bool { return e.Size >= n })
}

// AddGlob selects entries whose base name matches the wildcard pattern.
func (s *Selection) AddGlob(pattern string) {
	s.AddWhere(func(e scanner.Entry) bool {
		return wildcard.Match(pattern, filepath.Base(e.Path))
	})
}

// Contains reports whether the entry at path is selected.
func (s *Selection) Contains(path string) bool {
	return s.picked[filepath.Clean(path)]
}

// OptedIn reports whether the category was explicitly opted in.
func (s *Selection) OptedIn(c catalog.Category) bool { return s.optIn[c] }

// Count returns the number of selected entries.
func (s *Selection) Count() int { return len(s.picked) }

// TotalSize returns the byte sum of selected entries.
func (s *Selection) TotalSize() int64 {
	var total int64
	for _, e := range s.result.Entries {
		if s.picked[e.Path] {
			total += e.Size
		}
	}
	return total
}

// Entries returns the selected entries in scan-result order.
func (s *Selection) Entries() []scanner.Entry {
	out := make([]scanner.Entry, 0, len(s.picked))
	for _, e := range s.result.Entries {
		if s.picked[e.Path] {
			out = append(out, e)
		}
	}
	return out
}

// Categories returns the distinct categories among selected entries,
// in catalog order.
func (s *Selection) Categories() []catalog.Category {
	seen := make(map[catalog.Category]bool)
	for _, e := range s.Entries() {
		seen[e.Category] = true
	}
	out := make([]catalog.Category, 0, len(seen))
	for _, c := range catalog.AllCategories() {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}

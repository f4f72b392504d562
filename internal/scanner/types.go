package scanner

import (
	"errors"
	"time"

	"github.com/kurkanduk/gigabroom/internal/catalog"
)

// ErrInvalidOptions is returned before any I/O when scan parameters are
// out of range (negative depth or size, unusable root).
var ErrInvalidOptions = errors.New("invalid scan options")

// ErrIndexUnavailable is returned when the OS content index cannot serve
// queries on this system; the caller falls back to a filesystem walk.
var ErrIndexUnavailable = errors.New("system index unavailable")

// Params are the scan parameters that define what a scan means. They make
// up the cache fingerprint: two scans with equal Params over the same root
// are interchangeable.
type Params struct {
	// MaxDepth bounds directory recursion. Zero means unbounded.
	MaxDepth int `json:"max_depth"`

	// MinSize drops entries smaller than this many bytes from the result.
	MinSize int64 `json:"min_size"`

	// Categories, when non-empty, restricts the result to these categories.
	Categories []catalog.Category `json:"categories,omitempty"`

	// NameGlob, when non-empty, restricts the result to entries whose base
	// name matches the pattern.
	NameGlob string `json:"name_glob,omitempty"`

	// IndexMode asks the scanner to query the OS content index instead of
	// walking, falling back to the walk when the index cannot answer.
	IndexMode bool `json:"index_mode"`
}

// Options carries Params plus execution knobs that do not change the
// meaning of the result.
type Options struct {
	Params

	// Workers bounds scan parallelism. Zero means GOMAXPROCS.
	Workers int
}

// Entry is one matched artifact: an immutable snapshot taken at discovery
// time. Directory sizes are the recursive sum of contained file sizes,
// computed once; the entry never re-measures the path.
type Entry struct {
	Path     string              `json:"path"`
	Category catalog.Category    `json:"category"`
	Size     int64               `json:"size"`
	ModTime  time.Time           `json:"mod_time"`
	IsDir    bool                `json:"is_dir"`
	Danger   catalog.DangerLevel `json:"danger"`
}

// Result is a completed scan. Entries are sorted by path, never nested
// inside one another, and already filtered by Params.
type Result struct {
	Root      string        `json:"root"`
	Params    Params        `json:"params"`
	Entries   []Entry       `json:"entries"`
	TotalSize int64         `json:"total_size"`
	ScannedAt time.Time     `json:"scanned_at"`
	Elapsed   time.Duration `json:"elapsed"`

	// Visited counts every directory entry examined, including ones that
	// were later filtered out of Entries.
	Visited int64 `json:"visited"`
}

// EntryByPath returns the entry with the given path, if present.
func (r *Result) EntryByPath(path string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.Path == path {
			return e, true
		}
	}
	return Entry{}, false
}

// Package cache persists the most recent scan result so repeated scans
// within a short window skip the filesystem walk. One record exists at a
// time: a fresh scan for any root overwrites it.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kurkanduk/gigabroom/internal/scanner"
)

// DefaultTTL is how long a cached scan stays usable.
const DefaultTTL = 5 * time.Minute

// DefaultPath returns the per-user cache file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".gigabroom-cache.json")
}

// record is the on-disk shape: the serialized result plus the fingerprint
// and creation time that gate its reuse.
type record struct {
	Fingerprint string         `json:"fingerprint"`
	CreatedAt   time.Time      `json:"created_at"`
	Result      scanner.Result `json:"result"`
}

// Info describes the cache file for `cache info`.
type Info struct {
	Path       string
	Exists     bool
	EntryCount int
	Age        time.Duration
	SizeOnDisk int64
	Root       string
	Fresh      bool
}

// Cache is an explicit handle to the cache file. Pass it where needed
// instead of reading ambient process state, so tests can point it at a
// temp directory and a fake clock.
type Cache struct {
	path string
	ttl  time.Duration
	log  *slog.Logger
	now  func() time.Time
}

// Option customizes a Cache.
type Option func(*Cache)

// WithTTL overrides the validity window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache handle backed by the file at path.
func New(path string, log *slog.Logger, opts ...Option) *Cache {
	if log == nil {
		log = slog.Default()
	}
	c := &Cache{path: path, ttl: DefaultTTL, log: log, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fingerprint derives the cache key from the scan root and parameters.
func Fingerprint(root string, params scanner.Params) string {
	cats := make([]string, 0, len(params.Categories))
	for _, c := range params.Categories {
		cats = append(cats, c.ID())
	}
	sort.Strings(cats)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d|%v|%s|%t",
		filepath.Clean(root), params.MaxDepth, params.MinSize, cats, params.NameGlob, params.IndexMode)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached result for the given root and parameters, or nil
// when the record is absent, stale, keyed differently, or unreadable.
// Corruption is a miss, never an error.
func (c *Cache) Get(root string, params scanner.Params) *scanner.Result {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		c.log.Warn("cache file corrupted, ignoring", "path", c.path, "err", err)
		return nil
	}

	if rec.Fingerprint != Fingerprint(root, params) {
		return nil
	}
	if c.now().Sub(rec.CreatedAt) > c.ttl {
		return nil
	}

	// Drop entries deleted since the scan; the rest are still valid
	// snapshots.
	kept := rec.Result.Entries[:0]
	var total int64
	for _, e := range rec.Result.Entries {
		if _, err := os.Lstat(e.Path); err != nil {
			continue
		}
		kept = append(kept, e)
		total += e.Size
	}
	rec.Result.Entries = kept
	rec.Result.TotalSize = total

	return &rec.Result
}

// Put stores a scan result, replacing any previous record. The write goes
// through a temp file and rename so concurrent readers never observe a
// partial record.
func (c *Cache) Put(res *scanner.Result) error {
	rec := record{
		Fingerprint: Fingerprint(res.Root, res.Params),
		CreatedAt:   c.now(),
		Result:      *res,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode cache record: %w", err)
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, ".gigabroom-cache-*")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cache temp file: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("install cache file: %w", err)
	}
	return nil
}

// Clear removes the cache file. Removing an absent file succeeds.
func (c *Cache) Clear() error {
	err := os.Remove(c.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Stat describes the current cache file.
func (c *Cache) Stat() Info {
	info := Info{Path: c.path}

	fi, err := os.Stat(c.path)
	if err != nil {
		return info
	}
	info.Exists = true
	info.SizeOnDisk = fi.Size()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return info
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return info
	}

	info.EntryCount = len(rec.Result.Entries)
	info.Root = rec.Result.Root
	info.Age = c.now().Sub(rec.CreatedAt)
	info.Fresh = info.Age <= c.ttl
	return info
}

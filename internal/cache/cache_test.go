package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kurkanduk/gigabroom/internal/catalog"
	"github.com/kurkanduk/gigabroom/internal/scanner"
)

func testResult(t *testing.T, root string) *scanner.Result {
	t.Helper()
	target := filepath.Join(root, "proj", "target")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}
	return &scanner.Result{
		Root:   root,
		Params: scanner.Params{MaxDepth: 10},
		Entries: []scanner.Entry{{
			Path:     target,
			Category: catalog.RustTarget,
			Size:     4096,
			ModTime:  time.Now().UTC().Truncate(time.Second),
			IsDir:    true,
			Danger:   catalog.Safe,
		}},
		TotalSize: 4096,
		ScannedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func newTestCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "cache.json"), nil, opts...)
}

func TestRoundTrip(t *testing.T) {
	root := t.TempDir()
	res := testResult(t, root)
	c := newTestCache(t)

	if err := c.Put(res); err != nil {
		t.Fatal(err)
	}

	got := c.Get(root, res.Params)
	if got == nil {
		t.Fatal("expected cache hit")
	}
	if len(got.Entries) != 1 || got.Entries[0].Path != res.Entries[0].Path {
		t.Errorf("entries = %+v", got.Entries)
	}
	if got.Entries[0].Category != catalog.RustTarget {
		t.Errorf("category = %v", got.Entries[0].Category)
	}
	if got.TotalSize != 4096 {
		t.Errorf("total = %d", got.TotalSize)
	}
}

func TestExpiry(t *testing.T) {
	root := t.TempDir()
	res := testResult(t, root)

	now := time.Now()
	clock := &now
	c := newTestCache(t, WithClock(func() time.Time { return *clock }))

	if err := c.Put(res); err != nil {
		t.Fatal(err)
	}
	if c.Get(root, res.Params) == nil {
		t.Fatal("fresh record should hit")
	}

	later := now.Add(DefaultTTL + time.Second)
	clock = &later
	if c.Get(root, res.Params) != nil {
		t.Error("expired record should miss")
	}
}

func TestFingerprintMismatch(t *testing.T) {
	root := t.TempDir()
	res := testResult(t, root)
	c := newTestCache(t)

	if err := c.Put(res); err != nil {
		t.Fatal(err)
	}

	if c.Get(root, scanner.Params{MaxDepth: 5}) != nil {
		t.Error("different depth should miss")
	}
	if c.Get(filepath.Join(root, "sub"), res.Params) != nil {
		t.Error("different root should miss")
	}
	if c.Get(root, scanner.Params{MaxDepth: 10, NameGlob: "node_*"}) != nil {
		t.Error("different filter should miss")
	}
}

func TestCorruptionIsAMiss(t *testing.T) {
	c := newTestCache(t)
	if err := os.WriteFile(c.path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if c.Get(t.TempDir(), scanner.Params{}) != nil {
		t.Error("corrupted cache should miss")
	}
}

func TestVanishedEntriesFiltered(t *testing.T) {
	root := t.TempDir()
	res := testResult(t, root)
	c := newTestCache(t)

	if err := c.Put(res); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(res.Entries[0].Path); err != nil {
		t.Fatal(err)
	}

	got := c.Get(root, res.Params)
	if got == nil {
		t.Fatal("expected hit")
	}
	if len(got.Entries) != 0 {
		t.Errorf("vanished entry still served: %+v", got.Entries)
	}
	if got.TotalSize != 0 {
		t.Errorf("total = %d, want 0", got.TotalSize)
	}
}

func TestClear(t *testing.T) {
	root := t.TempDir()
	res := testResult(t, root)
	c := newTestCache(t)

	if err := c.Clear(); err != nil {
		t.Fatalf("clearing absent cache: %v", err)
	}

	if err := c.Put(res); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if c.Get(root, res.Params) != nil {
		t.Error("hit after clear")
	}
}

func TestStat(t *testing.T) {
	root := t.TempDir()
	res := testResult(t, root)
	c := newTestCache(t)

	info := c.Stat()
	if info.Exists {
		t.Error("no file yet")
	}

	if err := c.Put(res); err != nil {
		t.Fatal(err)
	}
	info = c.Stat()
	if !info.Exists || info.EntryCount != 1 || info.Root != root || !info.Fresh {
		t.Errorf("info = %+v", info)
	}
	if info.SizeOnDisk == 0 {
		t.Error("size on disk should be non-zero")
	}
}

func TestPutOverwrites(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	c := newTestCache(t)

	if err := c.Put(testResult(t, rootA)); err != nil {
		t.Fatal(err)
	}
	resB := testResult(t, rootB)
	if err := c.Put(resB); err != nil {
		t.Fatal(err)
	}

	if c.Get(rootA, scanner.Params{MaxDepth: 10}) != nil {
		t.Error("old root should have been overwritten")
	}
	if c.Get(rootB, resB.Params) == nil {
		t.Error("new root should hit")
	}
}

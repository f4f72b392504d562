package report

import (
	"testing"

	"github.com/kurkanduk/gigabroom/internal/catalog"
	"github.com/kurkanduk/gigabroom/internal/cleaner"
	"github.com/kurkanduk/gigabroom/internal/scanner"
)

func entries() []scanner.Entry {
	return []scanner.Entry{
		{Path: "/w/a/target", Category: catalog.RustTarget, Size: 100, IsDir: true},
		{Path: "/w/b/target", Category: catalog.RustTarget, Size: 300, IsDir: true},
		{Path: "/w/c/node_modules", Category: catalog.NodeModules, Size: 250, IsDir: true},
		{Path: "/w/d/x.log", Category: catalog.TempFiles, Size: 5},
	}
}

func TestGroupEntries(t *testing.T) {
	groups := GroupEntries(entries())
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if groups[0].Category != catalog.RustTarget || groups[0].TotalSize != 400 {
		t.Errorf("largest group = %v (%d bytes)", groups[0].Category, groups[0].TotalSize)
	}
	if groups[1].Category != catalog.NodeModules {
		t.Errorf("second group = %v", groups[1].Category)
	}
	if groups[0].Entries[0].Size != 300 {
		t.Errorf("entries inside a group must be largest first, got %d", groups[0].Entries[0].Size)
	}
	if groups[0].Count != 2 {
		t.Errorf("count = %d, want 2", groups[0].Count)
	}
}

func TestGroupPercentAndTop(t *testing.T) {
	groups := GroupEntries(entries())
	if p := groups[0].Percent(800); p < 49.9 || p > 50.1 {
		t.Errorf("percent = %.2f, want 50", p)
	}
	if p := groups[0].Percent(0); p != 0 {
		t.Errorf("percent of zero total = %.2f", p)
	}
	if top := groups[0].Top(1); len(top) != 1 || top[0].Size != 300 {
		t.Errorf("top(1) = %v", top)
	}
	if top := groups[0].Top(10); len(top) != 2 {
		t.Errorf("top(10) truncation failed, len = %d", len(top))
	}
}

func TestSummarize(t *testing.T) {
	res := &scanner.Result{Root: "/w", Entries: entries(), TotalSize: 655}
	s := Summarize(res)
	if s.Root != "/w" || s.Count != 4 || s.TotalSize != 655 {
		t.Errorf("summary = %+v", s)
	}
	if len(s.Groups) != 3 {
		t.Errorf("groups = %d", len(s.Groups))
	}
}

func TestSummarizeClean(t *testing.T) {
	rep := &cleaner.Report{
		DryRun:         false,
		Attempted:      3,
		Succeeded:      2,
		Failed:         []cleaner.Failure{{Path: "/w/a/target", Reason: "permission denied"}},
		Skipped:        []cleaner.Skip{{Path: "/w/m2", Reason: "caution"}},
		Deleted:        entries()[1:3],
		BytesReclaimed: 550,
		BytesPlanned:   650,
	}
	s := SummarizeClean(rep)
	if s.Succeeded != 2 || s.FailedCount != 1 || s.SkippedCount != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.BytesReclaimed != 550 {
		t.Errorf("reclaimed = %d", s.BytesReclaimed)
	}
	if len(s.Groups) != 2 {
		t.Errorf("groups = %d, want 2", len(s.Groups))
	}
}

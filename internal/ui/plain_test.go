package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/kurkanduk/gigabroom/internal/catalog"
	"github.com/kurkanduk/gigabroom/internal/cleaner"
	"github.com/kurkanduk/gigabroom/internal/report"
	"github.com/kurkanduk/gigabroom/internal/scanner"
)

func TestWriteScanSummary(t *testing.T) {
	res := &scanner.Result{
		Root: "/work",
		Entries: []scanner.Entry{
			{Path: "/work/a/node_modules", Category: catalog.NodeModules, Size: 700 << 20, IsDir: true},
			{Path: "/work/b/target", Category: catalog.RustTarget, Size: 300 << 20, IsDir: true},
			{Path: "/work/.m2/repository", Category: catalog.PackageCache, Size: 1 << 30, IsDir: true, Danger: catalog.Caution},
		},
		TotalSize: 700<<20 + 300<<20 + 1<<30,
	}

	var buf bytes.Buffer
	WriteScanSummary(&buf, report.Summarize(res))
	out := buf.String()

	for _, want := range []string{"Found", "/work", "Node modules", "Rust target", "Package cache", "[caution]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteScanSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteScanSummary(&buf, report.Summarize(&scanner.Result{Root: "/work"}))
	if !strings.Contains(buf.String(), "Nothing to clean") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestWriteCleanSummary(t *testing.T) {
	rep := &cleaner.Report{
		Attempted:      2,
		Succeeded:      1,
		Failed:         []cleaner.Failure{{Path: "/work/b/target", Reason: "permission denied"}},
		Deleted:        []scanner.Entry{{Path: "/work/a/node_modules", Category: catalog.NodeModules, Size: 512, IsDir: true}},
		BytesReclaimed: 512,
	}

	var buf bytes.Buffer
	WriteCleanSummary(&buf, rep)
	out := buf.String()

	if !strings.Contains(out, "Reclaimed 512 B") {
		t.Errorf("missing reclaim line:\n%s", out)
	}
	if !strings.Contains(out, "failed: /work/b/target: permission denied") {
		t.Errorf("missing failure line:\n%s", out)
	}

	rep.DryRun = true
	rep.BytesPlanned = 1024
	buf.Reset()
	WriteCleanSummary(&buf, rep)
	if !strings.Contains(buf.String(), "Would reclaim") {
		t.Errorf("dry run output = %q", buf.String())
	}
}

func TestPlainBarWidth(t *testing.T) {
	for _, pct := range []float64{-5, 0, 33, 100, 140} {
		if got := plainBar(pct, 16); len([]rune(got)) != 16 {
			t.Errorf("plainBar(%v) width = %d", pct, len([]rune(got)))
		}
	}
}

func TestBarWidth(t *testing.T) {
	for _, pct := range []float64{-5, 0, 33, 100, 140} {
		if w := lipgloss.Width(Bar(pct, 12)); w != 12 {
			t.Errorf("Bar(%v) width = %d, want 12", pct, w)
		}
	}
}

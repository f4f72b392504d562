package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/kurkanduk/gigabroom/internal/catalog"
	"github.com/kurkanduk/gigabroom/internal/cleaner"
	"github.com/kurkanduk/gigabroom/internal/format"
	"github.com/kurkanduk/gigabroom/internal/report"
)

// plainBar draws an uncolored proportional bar for piped output.
func plainBar(pct float64, width int) string {
	if width < 1 {
		width = 1
	}
	filled := int(pct/100*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// WriteScanSummary prints the grouped scan view: one section per
// category, largest first, the top five entries of each with a bar
// showing their share of the category.
func WriteScanSummary(w io.Writer, s report.ScanSummary) {
	if s.Count == 0 {
		fmt.Fprintf(w, "Nothing to clean under %s\n", s.Root)
		return
	}

	fmt.Fprintf(w, "Found %s in %d artifacts under %s\n\n",
		format.Size(s.TotalSize), s.Count, s.Root)

	for _, g := range s.Groups {
		caution := ""
		if g.Danger == catalog.Caution {
			caution = "  [caution]"
		}
		fmt.Fprintf(w, "%s  %d items  %s  (%.1f%%)%s\n",
			g.Category, g.Count, format.Size(g.TotalSize), g.Percent(s.TotalSize), caution)

		for _, e := range g.Top(5) {
			share := 0.0
			if g.TotalSize > 0 {
				share = float64(e.Size) / float64(g.TotalSize) * 100
			}
			fmt.Fprintf(w, "  %s %9s  %s\n",
				plainBar(share, 16), format.Size(e.Size), format.TruncatePath(e.Path, 70))
		}
		if g.Count > 5 {
			fmt.Fprintf(w, "  ... and %d more\n", g.Count-5)
		}
		fmt.Fprintln(w)
	}
}

// WriteCleanSummary prints the outcome of a clean run.
func WriteCleanSummary(w io.Writer, rep *cleaner.Report) {
	s := report.SummarizeClean(rep)

	verb := "Reclaimed"
	bytes := s.BytesReclaimed
	if s.DryRun {
		verb = "Would reclaim"
		bytes = s.BytesPlanned
	}
	fmt.Fprintf(w, "%s %s (%d of %d entries)\n", verb, format.Size(bytes), s.Succeeded, s.Attempted)

	for _, g := range s.Groups {
		fmt.Fprintf(w, "  %-18s %3d items  %s\n", g.Category.String(), g.Count, format.Size(g.TotalSize))
	}

	for _, f := range rep.Failed {
		fmt.Fprintf(w, "failed: %s: %s\n", f.Path, f.Reason)
	}
	for _, sk := range rep.Skipped {
		fmt.Fprintf(w, "skipped: %s: %s\n", sk.Path, sk.Reason)
	}
}

// WriteDiskPanel prints free space on the filesystem holding path.
// Errors are swallowed; the panel is informational only.
func WriteDiskPanel(w io.Writer, path string) {
	usage, err := disk.Usage(path)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "Disk: %s free of %s (%.1f%% used)\n",
		format.Size(int64(usage.Free)), format.Size(int64(usage.Total)), usage.UsedPercent)
}

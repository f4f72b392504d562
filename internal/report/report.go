// Package report aggregates scan results and clean reports into the
// per-category summaries the CLI and TUI render. It performs no I/O.
package report

import (
	"sort"

	"github.com/kurkanduk/gigabroom/internal/catalog"
	"github.com/kurkanduk/gigabroom/internal/cleaner"
	"github.com/kurkanduk/gigabroom/internal/scanner"
)

// Group is one category's slice of a scan, entries sorted largest first.
type Group struct {
	Category  catalog.Category    `json:"category"`
	Danger    catalog.DangerLevel `json:"danger"`
	Count     int                 `json:"count"`
	TotalSize int64               `json:"total_size"`
	Entries   []scanner.Entry     `json:"entries"`
}

// Percent returns the group's share of total, in the range 0 to 100.
func (g Group) Percent(total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(g.TotalSize) / float64(total) * 100
}

// Top returns up to n largest entries of the group.
func (g Group) Top(n int) []scanner.Entry {
	if n > len(g.Entries) {
		n = len(g.Entries)
	}
	return g.Entries[:n]
}

// GroupEntries buckets entries by category. Groups come back largest
// first; entries inside each group likewise.
func GroupEntries(entries []scanner.Entry) []Group {
	byCat := make(map[catalog.Category][]scanner.Entry)
	for _, e := range entries {
		byCat[e.Category] = append(byCat[e.Category], e)
	}

	groups := make([]Group, 0, len(byCat))
	for cat, es := range byCat {
		sort.Slice(es, func(i, j int) bool {
			if es[i].Size != es[j].Size {
				return es[i].Size > es[j].Size
			}
			return es[i].Path < es[j].Path
		})
		var total int64
		for _, e := range es {
			total += e.Size
		}
		groups = append(groups, Group{
			Category:  cat,
			Danger:    cat.Danger(),
			Count:     len(es),
			TotalSize: total,
			Entries:   es,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].TotalSize != groups[j].TotalSize {
			return groups[i].TotalSize > groups[j].TotalSize
		}
		return groups[i].Category < groups[j].Category
	})
	return groups
}

// ScanSummary is a grouped view over one scan result.
type ScanSummary struct {
	Root      string  `json:"root"`
	Count     int     `json:"count"`
	TotalSize int64   `json:"total_size"`
	Groups    []Group `json:"groups"`
}

// Summarize groups a scan result by category.
func Summarize(res *scanner.Result) ScanSummary {
	return ScanSummary{
		Root:      res.Root,
		Count:     len(res.Entries),
		TotalSize: res.TotalSize,
		Groups:    GroupEntries(res.Entries),
	}
}

// CleanSummary is the per-category view over one clean report.
type CleanSummary struct {
	DryRun         bool    `json:"dry_run"`
	Attempted      int     `json:"attempted"`
	Succeeded      int     `json:"succeeded"`
	FailedCount    int     `json:"failed"`
	SkippedCount   int     `json:"skipped"`
	BytesReclaimed int64   `json:"bytes_reclaimed"`
	BytesPlanned   int64   `json:"bytes_planned"`
	Groups         []Group `json:"groups"`
}

// SummarizeClean groups a clean report's deleted entries by category.
func SummarizeClean(rep *cleaner.Report) CleanSummary {
	return CleanSummary{
		DryRun:         rep.DryRun,
		Attempted:      rep.Attempted,
		Succeeded:      rep.Succeeded,
		FailedCount:    len(rep.Failed),
		SkippedCount:   len(rep.Skipped),
		BytesReclaimed: rep.BytesReclaimed,
		BytesPlanned:   rep.BytesPlanned,
		Groups:         GroupEntries(rep.Deleted),
	}
}

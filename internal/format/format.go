// Package format holds the small formatting and parsing helpers shared by
// the CLI and the interactive UI.
package format

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Size renders a byte count in binary units ("1.5 GiB").
func Size(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// Count renders an integer with thousands separators.
func Count(n int64) string {
	return humanize.Comma(n)
}

// ParseSize parses human size input like "100MB", "1.5GB" or "2048".
// Units are binary multiples, matching how sizes are displayed. A bare
// number is taken as bytes.
func ParseSize(s string) (int64, error) {
	in := strings.TrimSpace(strings.ToUpper(s))
	if in == "" {
		return 0, fmt.Errorf("empty size")
	}

	multiplier := int64(1)
	for _, u := range []struct {
		suffix string
		mult   int64
	}{
		{"TIB", 1 << 40}, {"TB", 1 << 40}, {"T", 1 << 40},
		{"GIB", 1 << 30}, {"GB", 1 << 30}, {"G", 1 << 30},
		{"MIB", 1 << 20}, {"MB", 1 << 20}, {"M", 1 << 20},
		{"KIB", 1 << 10}, {"KB", 1 << 10}, {"K", 1 << 10},
		{"B", 1},
	} {
		if strings.HasSuffix(in, u.suffix) {
			in = strings.TrimSpace(strings.TrimSuffix(in, u.suffix))
			multiplier = u.mult
			break
		}
	}

	value, err := strconv.ParseFloat(in, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return int64(value * float64(multiplier)), nil
}

// ExpandTilde resolves a leading ~ to the user's home directory and
// cleans shell-escaped spaces out of pasted paths.
func ExpandTilde(path string) string {
	path = strings.ReplaceAll(path, `\ `, " ")

	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// TruncatePath shortens a path for single-line display.
func TruncatePath(path string, maxLen int) string {
	if len(path) <= maxLen || maxLen < 4 {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

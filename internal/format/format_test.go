package format

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1024", 1024},
		{"1KB", 1024},
		{"1kb", 1024},
		{"100MB", 100 << 20},
		{"100 MB", 100 << 20},
		{"1GB", 1 << 30},
		{"1.5GB", 3 << 29},
		{"1TB", 1 << 40},
		{"512B", 512},
		{"2GiB", 2 << 30},
	}
	for _, tc := range cases {
		got, err := ParseSize(tc.in)
		if err != nil {
			t.Errorf("ParseSize(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "MB", "abc", "-5MB"} {
		if _, err := ParseSize(bad); err == nil {
			t.Errorf("ParseSize(%q): expected error", bad)
		}
	}
}

func TestSize(t *testing.T) {
	if got := Size(1536 << 20); got != "1.5 GiB" {
		t.Errorf("Size = %q, want 1.5 GiB", got)
	}
	if got := Size(-1); got != "0 B" {
		t.Errorf("Size(-1) = %q, want 0 B", got)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	if got := ExpandTilde("~"); got != home {
		t.Errorf("ExpandTilde(~) = %q, want %q", got, home)
	}
	if got := ExpandTilde("~/projects"); got != filepath.Join(home, "projects") {
		t.Errorf("ExpandTilde(~/projects) = %q", got)
	}
	if got := ExpandTilde("/usr/local"); got != "/usr/local" {
		t.Errorf("ExpandTilde(/usr/local) = %q", got)
	}
	if got := ExpandTilde(`~/my\ dir`); !strings.HasSuffix(got, "my dir") {
		t.Errorf("escaped space not cleaned: %q", got)
	}
}

func TestTruncatePath(t *testing.T) {
	long := "/very/long/path/to/some/deeply/nested/artifact"
	got := TruncatePath(long, 20)
	if len(got) != 20 || !strings.HasPrefix(got, "...") {
		t.Errorf("TruncatePath = %q", got)
	}
	if got := TruncatePath("/short", 20); got != "/short" {
		t.Errorf("short path changed: %q", got)
	}
}

package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kurkanduk/gigabroom/internal/catalog"
	"github.com/kurkanduk/gigabroom/internal/cleaner"
	"github.com/kurkanduk/gigabroom/internal/scanner"
)

func TestBuildSelectionByPath(t *testing.T) {
	sep := string(filepath.Separator)
	nm := filepath.Join(sep, "work", "app", "node_modules")
	other := filepath.Join(sep, "work", "b", "node_modules")
	res := &scanner.Result{
		Root: filepath.Join(sep, "work"),
		Entries: []scanner.Entry{
			{Path: nm, Category: catalog.NodeModules, Size: 10, IsDir: true, Danger: catalog.Safe},
			{Path: other, Category: catalog.NodeModules, Size: 20, IsDir: true, Danger: catalog.Safe},
		},
	}

	defer func() {
		cleanFlags.paths = nil
		cleanFlags.yes = false
	}()
	cleanFlags.paths = []string{nm}
	cleanFlags.yes = true

	sel, confirmed, err := buildSelection(res)
	if err != nil {
		t.Fatal(err)
	}
	if !confirmed || sel.Count() != 1 || !sel.Contains(nm) {
		t.Fatalf("count=%d confirmed=%v, want just %s", sel.Count(), confirmed, nm)
	}

	cleanFlags.paths = []string{filepath.Join(sep, "work", "missing")}
	if _, _, err := buildSelection(res); err == nil {
		t.Fatal("a path outside the scan results should be rejected")
	}
}

func TestCleanExitErr(t *testing.T) {
	if err := cleanExitErr(&cleaner.Report{Attempted: 2, Succeeded: 2}); err != nil {
		t.Fatalf("clean run should exit zero: %v", err)
	}

	partial := &cleaner.Report{Attempted: 2, Succeeded: 1, Failed: []cleaner.Failure{{Path: "/x"}}}
	var exit *ExitError
	if err := cleanExitErr(partial); !errors.As(err, &exit) || exit.Code != 2 {
		t.Fatalf("partial failure: err = %v", err)
	}

	all := &cleaner.Report{Attempted: 1, Failed: []cleaner.Failure{{Path: "/x"}}}
	if err := cleanExitErr(all); !errors.As(err, &exit) || !strings.Contains(exit.Msg, "none of the") {
		t.Fatalf("total failure: err = %v", err)
	}
}

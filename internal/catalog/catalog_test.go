package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func mkdirAll(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMatchCargoTarget(t *testing.T) {
	root := t.TempDir()
	proj := mkdirAll(t, filepath.Join(root, "proj"))
	writeFile(t, filepath.Join(proj, "Cargo.toml"))
	target := mkdirAll(t, filepath.Join(proj, "target"))

	rule, ok := New().Match(target, true)
	if !ok {
		t.Fatal("expected target to match")
	}
	if rule.Category != RustTarget {
		t.Errorf("category = %v, want RustTarget", rule.Category)
	}
	if rule.Category.Danger() != Safe {
		t.Errorf("danger = %v, want safe", rule.Category.Danger())
	}
}

func TestMatchPriorityOverGenericBuild(t *testing.T) {
	// A Cargo project's target must classify as rust-target even though a
	// Cargo.toml also satisfies the generic build-directory context.
	root := t.TempDir()
	proj := mkdirAll(t, filepath.Join(root, "proj"))
	writeFile(t, filepath.Join(proj, "Cargo.toml"))
	writeFile(t, filepath.Join(proj, "pom.xml"))
	target := mkdirAll(t, filepath.Join(proj, "target"))

	rule, ok := New().Match(target, true)
	if !ok || rule.Category != RustTarget {
		t.Fatalf("got %v ok=%v, want RustTarget", rule.Category, ok)
	}
}

func TestGenericBuildRequiresContext(t *testing.T) {
	root := t.TempDir()
	build := mkdirAll(t, filepath.Join(root, "photos", "build"))

	if _, ok := New().Match(build, true); ok {
		t.Fatal("build dir without project markers must not match")
	}

	writeFile(t, filepath.Join(root, "photos", "package.json"))
	rule, ok := New().Match(build, true)
	if !ok || rule.Category != BuildCache {
		t.Fatalf("got %v ok=%v, want BuildCache", rule.Category, ok)
	}
}

func TestGenericBuildContextInGrandparent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"))
	dist := mkdirAll(t, filepath.Join(root, "web", "dist"))

	rule, ok := New().Match(dist, true)
	if !ok || rule.Category != BuildCache {
		t.Fatalf("got %v ok=%v, want BuildCache via ancestor marker", rule.Category, ok)
	}
}

func TestVendorDisambiguation(t *testing.T) {
	root := t.TempDir()

	php := mkdirAll(t, filepath.Join(root, "php-app"))
	writeFile(t, filepath.Join(php, "composer.json"))
	goproj := mkdirAll(t, filepath.Join(root, "go-app"))
	writeFile(t, filepath.Join(goproj, "go.mod"))
	ruby := mkdirAll(t, filepath.Join(root, "ruby-app"))
	writeFile(t, filepath.Join(ruby, "Gemfile"))
	plain := mkdirAll(t, filepath.Join(root, "plain"))

	cases := []struct {
		dir  string
		want Category
		ok   bool
	}{
		{filepath.Join(php, "vendor"), PHPVendor, true},
		{filepath.Join(goproj, "vendor"), GoVendor, true},
		{filepath.Join(ruby, "vendor"), RubyGems, true},
		{filepath.Join(plain, "vendor"), 0, false},
	}
	cat := New()
	for _, tc := range cases {
		mkdirAll(t, tc.dir)
		rule, ok := cat.Match(tc.dir, true)
		if ok != tc.ok {
			t.Errorf("%s: ok = %v, want %v", tc.dir, ok, tc.ok)
			continue
		}
		if ok && rule.Category != tc.want {
			t.Errorf("%s: category = %v, want %v", tc.dir, rule.Category, tc.want)
		}
	}
}

func TestDotNetRequiresSiblingPair(t *testing.T) {
	root := t.TempDir()
	proj := mkdirAll(t, filepath.Join(root, "app"))
	writeFile(t, filepath.Join(proj, "app.csproj"))
	bin := mkdirAll(t, filepath.Join(proj, "bin"))

	// bin without obj: not a .NET build layout.
	if _, ok := New().Match(bin, true); ok {
		t.Fatal("bin without obj sibling must not match")
	}

	mkdirAll(t, filepath.Join(proj, "obj"))
	rule, ok := New().Match(bin, true)
	if !ok || rule.Category != DotNetBuild {
		t.Fatalf("got %v ok=%v, want DotNetBuild", rule.Category, ok)
	}
}

func TestFileRules(t *testing.T) {
	cases := []struct {
		name  string
		isDir bool
		want  Category
		ok    bool
	}{
		{"module.pyc", false, PythonCache, true},
		{"debug.log", false, TempFiles, true},
		{"scratch.tmp", false, TempFiles, true},
		{".DS_Store", false, OSJunk, true},
		{"Thumbs.db", false, OSJunk, true},
		{"main.o", false, CCache, true},
		{"a.out", false, CCache, true},
		{"main.go", false, 0, false},
		{"debug.log", true, 0, false}, // a directory named like a log file
	}
	root := t.TempDir()
	cat := New()
	for _, tc := range cases {
		rule, ok := cat.Match(filepath.Join(root, tc.name), tc.isDir)
		if ok != tc.ok {
			t.Errorf("%s isDir=%v: ok = %v, want %v", tc.name, tc.isDir, ok, tc.ok)
			continue
		}
		if ok && rule.Category != tc.want {
			t.Errorf("%s: category = %v, want %v", tc.name, rule.Category, tc.want)
		}
	}
}

func TestPackageCachePaths(t *testing.T) {
	cat := New()
	rule, ok := cat.Match(filepath.Join(t.TempDir(), ".npm", "_cacache", "content-v2"), true)
	if !ok || rule.Category != PackageCache {
		t.Fatalf("got %v ok=%v, want PackageCache", rule.Category, ok)
	}
	if rule.Category.Danger() != Caution {
		t.Errorf("package cache danger = %v, want caution", rule.Category.Danger())
	}
}

func TestWithExtraMarkers(t *testing.T) {
	root := t.TempDir()
	proj := mkdirAll(t, filepath.Join(root, "zig-app"))
	writeFile(t, filepath.Join(proj, "build.zig"))
	out := mkdirAll(t, filepath.Join(proj, "out"))

	if _, ok := New().Match(out, true); ok {
		t.Fatal("out without a known marker must not match")
	}

	cat := New(WithExtraMarkers("build-cache", "build.zig"))
	rule, ok := cat.Match(out, true)
	if !ok || rule.Category != BuildCache {
		t.Fatalf("got %v ok=%v, want BuildCache with custom marker", rule.Category, ok)
	}
}

func TestCategoryJSONRoundTrip(t *testing.T) {
	for _, c := range AllCategories() {
		data, err := json.Marshal(c)
		if err != nil {
			t.Fatal(err)
		}
		var back Category
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("%s: %v", c.ID(), err)
		}
		if back != c {
			t.Errorf("round trip %v != %v", back, c)
		}
	}
}

func TestParseCategoryAliases(t *testing.T) {
	cases := map[string]Category{
		"rust":        RustTarget,
		"rust-target": RustTarget,
		"node":        NodeModules,
		"java-maven":  MavenTarget,
		"temp":        TempFiles,
	}
	for in, want := range cases {
		got, err := ParseCategory(in)
		if err != nil {
			t.Errorf("ParseCategory(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseCategory(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseCategory("haskell"); err == nil {
		t.Error("expected error for unknown category")
	}
}

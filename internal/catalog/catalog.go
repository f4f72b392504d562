package catalog

import (
	"os"
	"path/filepath"
	"strings"
)

// Rule recognizes one kind of artifact. Rules are immutable after the
// catalog is built and are evaluated in table order, first match wins.
// Ecosystem-specific rules sit above the generic build-directory rule so
// a Cargo `target` is never reported as a plain build directory.
type Rule struct {
	// ID is a stable identifier for the rule, used to attach extra
	// context markers from the user config.
	ID string

	Category Category

	// Names are exact base names that trigger the rule.
	Names []string

	// Suffixes are file-name suffixes that trigger the rule (".pyc").
	Suffixes []string

	// PathContains are slash-normalized path fragments that trigger the
	// rule anywhere in the path (global package caches).
	PathContains []string

	// DirOnly / FileOnly restrict the entry type the rule applies to.
	DirOnly  bool
	FileOnly bool

	// ContextMarkers are file patterns (literal names or globs such as
	// "*.csproj") at least one of which must exist in an ancestor
	// directory for the rule to apply. Empty means no context required.
	ContextMarkers []string

	// ContextDepth is how many ancestor levels are probed for context
	// markers. Zero means one level (the direct parent).
	ContextDepth int

	// SiblingDir, when set, must exist next to the matched directory.
	// Used for .NET where bin and obj come in pairs.
	SiblingDir string

	Description string
}

// projectMarkers disambiguate generically named build directories. A
// `build`, `dist` or `out` directory only counts as an artifact when one
// of these sits in an ancestor directory, which keeps arbitrary user
// directories that happen to share those names out of the results.
var projectMarkers = []string{
	"package.json",
	"Cargo.toml",
	"pom.xml",
	"build.gradle",
	"build.gradle.kts",
	"go.mod",
	"pyproject.toml",
	"setup.py",
	"composer.json",
	"Makefile",
	"CMakeLists.txt",
	"*.csproj",
	"*.sln",
}

func defaultRules() []Rule {
	return []Rule{
		{
			ID:             "rust-target",
			Category:       RustTarget,
			Names:          []string{"target"},
			DirOnly:        true,
			ContextMarkers: []string{"Cargo.toml"},
			Description:    "Cargo build output",
		},
		{
			ID:             "maven-target",
			Category:       MavenTarget,
			Names:          []string{"target"},
			DirOnly:        true,
			ContextMarkers: []string{"pom.xml"},
			Description:    "Maven build output",
		},
		{
			ID:             "gradle-build",
			Category:       GradleBuild,
			Names:          []string{"build"},
			DirOnly:        true,
			ContextMarkers: []string{"build.gradle", "build.gradle.kts"},
			Description:    "Gradle build output",
		},
		{
			ID:          "gradle-project-cache",
			Category:    GradleBuild,
			Names:       []string{".gradle"},
			DirOnly:     true,
			Description: "Gradle per-project cache",
		},
		{
			ID:          "node-modules",
			Category:    NodeModules,
			Names:       []string{"node_modules"},
			DirOnly:     true,
			Description: "Installed npm packages",
		},
		{
			ID:          "python-cache",
			Category:    PythonCache,
			Names:       []string{"__pycache__", ".pytest_cache", ".tox", ".mypy_cache", "venv", ".venv"},
			DirOnly:     true,
			Description: "Python caches and virtualenvs",
		},
		{
			ID:          "python-bytecode",
			Category:    PythonCache,
			Suffixes:    []string{".pyc", ".pyo"},
			FileOnly:    true,
			Description: "Python bytecode files",
		},
		{
			ID:             "php-vendor",
			Category:       PHPVendor,
			Names:          []string{"vendor"},
			DirOnly:        true,
			ContextMarkers: []string{"composer.json"},
			Description:    "Composer vendor directory",
		},
		{
			ID:             "go-vendor",
			Category:       GoVendor,
			Names:          []string{"vendor"},
			DirOnly:        true,
			ContextMarkers: []string{"go.mod", "go.sum"},
			Description:    "Go vendored modules",
		},
		{
			ID:             "ruby-vendor",
			Category:       RubyGems,
			Names:          []string{"vendor"},
			DirOnly:        true,
			ContextMarkers: []string{"Gemfile", "Gemfile.lock"},
			Description:    "Bundler vendor directory",
		},
		{
			ID:          "ruby-bundle",
			Category:    RubyGems,
			Names:       []string{".bundle"},
			DirOnly:     true,
			Description: "Bundler local config and gems",
		},
		{
			ID:          "cmake-files",
			Category:    CCache,
			Names:       []string{"CMakeFiles"},
			DirOnly:     true,
			Description: "CMake intermediate files",
		},
		{
			ID:          "c-objects",
			Category:    CCache,
			Names:       []string{"a.out"},
			Suffixes:    []string{".o", ".a"},
			FileOnly:    true,
			Description: "C/C++ object files",
		},
		{
			ID:             "dotnet-bin",
			Category:       DotNetBuild,
			Names:          []string{"bin"},
			DirOnly:        true,
			ContextMarkers: []string{"*.csproj", "*.vbproj", "*.fsproj"},
			SiblingDir:     "obj",
			Description:    ".NET build output",
		},
		{
			ID:             "dotnet-obj",
			Category:       DotNetBuild,
			Names:          []string{"obj"},
			DirOnly:        true,
			ContextMarkers: []string{"*.csproj", "*.vbproj", "*.fsproj"},
			SiblingDir:     "bin",
			Description:    ".NET intermediate output",
		},
		{
			ID:             "dotnet-packages",
			Category:       DotNetBuild,
			Names:          []string{"packages"},
			DirOnly:        true,
			ContextMarkers: []string{"*.sln"},
			ContextDepth:   2,
			Description:    "NuGet solution packages",
		},
		{
			ID:             "swift-build",
			Category:       SwiftBuild,
			Names:          []string{".build"},
			DirOnly:        true,
			ContextMarkers: []string{"Package.swift"},
			Description:    "SwiftPM build output",
		},
		{
			ID:          "xcode-derived",
			Category:    SwiftBuild,
			Names:       []string{"DerivedData"},
			DirOnly:     true,
			Description: "Xcode derived data",
		},
		{
			ID:          "ide-cache",
			Category:    IDECache,
			Names:       []string{".idea", ".vscode", ".vs"},
			DirOnly:     true,
			Description: "IDE project metadata",
		},
		{
			ID:          "os-junk",
			Category:    OSJunk,
			Names:       []string{".DS_Store", "Thumbs.db", "desktop.ini", ".localized"},
			FileOnly:    true,
			Description: "OS metadata junk files",
		},
		{
			// ~/.cache is not matched whole so the caution-gated
			// pip and yarn caches below it stay visible.
			ID:          "temp-dirs",
			Category:    TempFiles,
			Names:       []string{".sass-cache", ".parcel-cache"},
			DirOnly:     true,
			Description: "Tool cache directories",
		},
		{
			ID:          "temp-files",
			Category:    TempFiles,
			Suffixes:    []string{".log", ".tmp", ".temp"},
			FileOnly:    true,
			Description: "Log and temp files",
		},
		{
			ID:       "package-cache",
			Category: PackageCache,
			PathContains: []string{
				"/.npm/_cacache",
				"/.cache/pip",
				"/.cache/yarn",
				"/.m2/repository",
			},
			Description: "Global package manager caches",
		},
		{
			ID:             "build-cache",
			Category:       BuildCache,
			Names:          []string{"build", "dist", "out"},
			DirOnly:        true,
			ContextMarkers: projectMarkers,
			ContextDepth:   3,
			Description:    "Generic build output",
		},
	}
}

// Catalog is the ordered rule table. Build one at startup and share it;
// it is read-only afterwards and safe for concurrent use.
type Catalog struct {
	rules []Rule
}

// Option customizes catalog construction.
type Option func(*Catalog)

// WithExtraMarkers appends user-configured context markers to the rule
// with the given ID. Unknown IDs are ignored.
func WithExtraMarkers(ruleID string, markers ...string) Option {
	return func(c *Catalog) {
		for i := range c.rules {
			if c.rules[i].ID == ruleID {
				c.rules[i].ContextMarkers = append(c.rules[i].ContextMarkers, markers...)
			}
		}
	}
}

// New builds the catalog with the built-in rule table.
func New(opts ...Option) *Catalog {
	c := &Catalog{rules: defaultRules()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rules returns the rule table in evaluation order.
func (c *Catalog) Rules() []Rule {
	return c.rules
}

// Match classifies a filesystem entry. It returns the matched rule and
// true, or false when no rule applies. A rule whose context requirement
// is unmet simply does not match; ambiguity resolves to omission.
func (c *Catalog) Match(path string, isDir bool) (Rule, bool) {
	name := filepath.Base(path)
	slashed := filepath.ToSlash(path)

	for _, r := range c.rules {
		if r.DirOnly && !isDir {
			continue
		}
		if r.FileOnly && isDir {
			continue
		}
		if !r.matchesName(name, slashed) {
			continue
		}
		if !r.contextSatisfied(path) {
			continue
		}
		return r, true
	}
	return Rule{}, false
}

func (r Rule) matchesName(name, slashedPath string) bool {
	for _, n := range r.Names {
		if name == n {
			return true
		}
	}
	for _, s := range r.Suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	for _, frag := range r.PathContains {
		if strings.Contains(slashedPath, frag) {
			return true
		}
	}
	return false
}

// contextSatisfied probes ancestor directories for the rule's marker
// files. A missing or unreadable ancestor counts as unmet context.
func (r Rule) contextSatisfied(path string) bool {
	if r.SiblingDir != "" {
		sibling := filepath.Join(filepath.Dir(path), r.SiblingDir)
		if info, err := os.Stat(sibling); err != nil || !info.IsDir() {
			return false
		}
	}

	if len(r.ContextMarkers) == 0 {
		return true
	}

	depth := r.ContextDepth
	if depth <= 0 {
		depth = 1
	}

	dir := filepath.Dir(path)
	for level := 0; level < depth; level++ {
		if dirHasMarker(dir, r.ContextMarkers) {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return false
}

func dirHasMarker(dir string, markers []string) bool {
	var names []string // directory listing, read lazily for glob markers
	for _, m := range markers {
		if !strings.ContainsAny(m, "*?[") {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return true
			}
			continue
		}
		if names == nil {
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			names = make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
		}
		for _, n := range names {
			if ok, _ := filepath.Match(m, n); ok {
				return true
			}
		}
	}
	return false
}

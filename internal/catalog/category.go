package catalog

import (
	"encoding/json"
	"fmt"
)

// Category classifies a deletable artifact. The set is closed: rules map
// filesystem entries onto exactly one of these.
type Category int

const (
	RustTarget Category = iota
	NodeModules
	PythonCache
	PHPVendor
	RubyGems
	MavenTarget
	GradleBuild
	GoVendor
	CCache
	DotNetBuild
	SwiftBuild
	IDECache
	OSJunk
	TempFiles
	PackageCache
	BuildCache

	numCategories
)

// DangerLevel indicates the cost of deleting an artifact. Safe artifacts
// are rebuilt locally; caution artifacts require re-downloading and affect
// every project on the machine.
type DangerLevel int

const (
	Safe DangerLevel = iota
	Caution
)

var categoryIDs = [numCategories]string{
	RustTarget:   "rust-target",
	NodeModules:  "node-modules",
	PythonCache:  "python-cache",
	PHPVendor:    "php-vendor",
	RubyGems:     "ruby-gems",
	MavenTarget:  "maven-target",
	GradleBuild:  "gradle-build",
	GoVendor:     "go-vendor",
	CCache:       "c-cache",
	DotNetBuild:  "dotnet-build",
	SwiftBuild:   "swift-build",
	IDECache:     "ide-cache",
	OSJunk:       "os-junk",
	TempFiles:    "temp-file",
	PackageCache: "package-cache",
	BuildCache:   "build-cache",
}

var categoryNames = [numCategories]string{
	RustTarget:   "Rust target",
	NodeModules:  "Node modules",
	PythonCache:  "Python cache",
	PHPVendor:    "PHP vendor",
	RubyGems:     "Ruby gems",
	MavenTarget:  "Maven target",
	GradleBuild:  "Gradle build",
	GoVendor:     "Go vendor",
	CCache:       "C/C++ cache",
	DotNetBuild:  ".NET build",
	SwiftBuild:   "Swift build",
	IDECache:     "IDE cache",
	OSJunk:       "OS junk",
	TempFiles:    "Temp/log files",
	PackageCache: "Package cache",
	BuildCache:   "Build cache",
}

// shortNames maps the CLI-facing --category aliases to categories.
var shortNames = map[string]Category{
	"rust":          RustTarget,
	"node":          NodeModules,
	"python":        PythonCache,
	"php":           PHPVendor,
	"ruby":          RubyGems,
	"java-maven":    MavenTarget,
	"java-gradle":   GradleBuild,
	"go":            GoVendor,
	"c":             CCache,
	"dotnet":        DotNetBuild,
	"swift":         SwiftBuild,
	"ide":           IDECache,
	"os-junk":       OSJunk,
	"temp":          TempFiles,
	"package-cache": PackageCache,
	"build":         BuildCache,
}

// AllCategories returns every category in display order.
func AllCategories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// ID returns the stable machine identifier (e.g. "rust-target").
func (c Category) ID() string {
	if c < 0 || c >= numCategories {
		return "unknown"
	}
	return categoryIDs[c]
}

// String returns the human-readable name (e.g. "Rust target").
func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// Danger returns the danger level for artifacts of this category.
func (c Category) Danger() DangerLevel {
	if c == PackageCache {
		return Caution
	}
	return Safe
}

// ParseCategory resolves either a stable ID or a CLI alias.
func ParseCategory(s string) (Category, error) {
	for i, id := range categoryIDs {
		if id == s {
			return Category(i), nil
		}
	}
	if c, ok := shortNames[s]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// MarshalJSON encodes the category as its stable ID so cache records and
// JSON output survive reordering of the enum.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ID())
}

// UnmarshalJSON decodes a stable ID back into a Category.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (d DangerLevel) String() string {
	if d == Caution {
		return "caution"
	}
	return "safe"
}

// MarshalJSON encodes the danger level as "safe" or "caution".
func (d DangerLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes "safe" or "caution".
func (d *DangerLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "safe":
		*d = Safe
	case "caution":
		*d = Caution
	default:
		return fmt.Errorf("unknown danger level %q", s)
	}
	return nil
}

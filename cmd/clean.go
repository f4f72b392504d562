package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kurkanduk/gigabroom/internal/cleaner"
	"github.com/kurkanduk/gigabroom/internal/format"
	"github.com/kurkanduk/gigabroom/internal/report"
	"github.com/kurkanduk/gigabroom/internal/scanner"
	"github.com/kurkanduk/gigabroom/internal/selection"
	"github.com/kurkanduk/gigabroom/internal/ui"
)

var cleanFlags struct {
	maxDepth   int
	forceScan  bool
	index      bool
	minSize    string
	categories []string
	paths      []string
	all        bool
	yes        bool
	dryRun     bool
	force      bool
	jsonOut    bool
}

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Delete build artifacts to free disk space",
	Long: `Scan (or reuse a fresh cached scan) and delete the selected build
artifacts. Without --category, --path or --all a terminal gets the
interactive browser; piped invocations must say what to delete.

Package caches (npm, pip, Maven, ...) are shared across projects and
need an explicit --category package-cache or --force.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}

		root, err := resolveRoot(args)
		if err != nil {
			return err
		}

		// Reuse the scan flag plumbing; both commands share the options.
		scanFlags.maxDepth = cleanFlags.maxDepth
		scanFlags.index = cleanFlags.index
		scanFlags.minSize = cleanFlags.minSize
		scanFlags.nameGlob = ""
		scanFlags.categories = nil
		opts, err := scanOptions(e.cfg.MaxDepth, e.cfg.Workers)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		res, err := e.resolveResult(ctx, root, opts, cleanFlags.forceScan, cleanFlags.jsonOut)
		if err != nil {
			return &ExitError{Code: 1, Msg: err.Error()}
		}
		if len(res.Entries) == 0 {
			if !cleanFlags.jsonOut {
				fmt.Printf("Nothing to clean under %s\n", root)
			}
			return nil
		}

		sel, confirmed, err := buildSelection(res)
		if err != nil {
			return err
		}
		if !confirmed || sel.Count() == 0 {
			return nil
		}

		rep := e.cleaner.Clean(ctx, sel, cleaner.Options{
			DryRun: cleanFlags.dryRun,
			Force:  cleanFlags.force,
		})

		if rep.Succeeded > 0 && !rep.DryRun {
			if err := e.cache.Clear(); err != nil {
				e.log.Warn("could not clear result cache", "err", err)
			}
		}

		if cleanFlags.jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report.SummarizeClean(rep)); err != nil {
				return err
			}
		} else {
			ui.WriteCleanSummary(os.Stdout, rep)
			ui.WriteDiskPanel(os.Stdout, root)
		}
		return cleanExitErr(rep)
	},
}

// buildSelection picks entries per the flags, or drops into the
// interactive browser when no flag said what to delete.
func buildSelection(res *scanner.Result) (*selection.Selection, bool, error) {
	if len(cleanFlags.categories) == 0 && len(cleanFlags.paths) == 0 && !cleanFlags.all {
		if useTUI(cleanFlags.jsonOut) {
			return ui.RunBrowser(res)
		}
		return nil, false, fmt.Errorf("nothing selected: pass --all, --category or --path, or run on a terminal")
	}

	sel := selection.New(res)
	if err := applySelectionFlags(sel, cleanFlags.categories, cleanFlags.all); err != nil {
		return nil, false, err
	}
	for _, p := range cleanFlags.paths {
		abs, err := filepath.Abs(format.ExpandTilde(p))
		if err != nil {
			return nil, false, err
		}
		sel.Add(abs)
		if !sel.Contains(abs) {
			return nil, false, fmt.Errorf("%s is not in the scan results", abs)
		}
	}
	if sel.Count() == 0 {
		return sel, false, nil
	}

	if cleanFlags.yes || cleanFlags.dryRun {
		return sel, true, nil
	}
	return sel, promptYesNo(fmt.Sprintf("Delete %d artifacts (%s)?",
		sel.Count(), format.Size(sel.TotalSize()))), nil
}

// promptYesNo asks on stderr and reads one line from stdin.
func promptYesNo(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	cleanCmd.Flags().IntVarP(&cleanFlags.maxDepth, "max-depth", "d", -1, "Maximum directory depth (0 = unlimited)")
	cleanCmd.Flags().BoolVar(&cleanFlags.forceScan, "force-scan", false, "Ignore the cache and rescan")
	cleanCmd.Flags().BoolVar(&cleanFlags.index, "index", false, "Use the OS file index when available (macOS Spotlight)")
	cleanCmd.Flags().StringVar(&cleanFlags.minSize, "min-size", "", "Only touch artifacts of at least this size (e.g. 100MB)")
	cleanCmd.Flags().StringSliceVarP(&cleanFlags.categories, "category", "c", nil, "Delete these categories (rust, node, python, ...)")
	cleanCmd.Flags().StringSliceVarP(&cleanFlags.paths, "path", "p", nil, "Delete this scanned artifact path (repeatable)")
	cleanCmd.Flags().BoolVar(&cleanFlags.all, "all", false, "Delete every safe artifact found")
	cleanCmd.Flags().BoolVarP(&cleanFlags.yes, "yes", "y", false, "Skip the confirmation prompt")
	cleanCmd.Flags().BoolVar(&cleanFlags.dryRun, "dry-run", false, "Show what would be deleted without deleting")
	cleanCmd.Flags().BoolVar(&cleanFlags.force, "force", false, "Also delete caution-level artifacts (shared package caches)")
	cleanCmd.Flags().BoolVar(&cleanFlags.jsonOut, "json", false, "Print the report as JSON")
}

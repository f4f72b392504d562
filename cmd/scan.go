package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kurkanduk/gigabroom/internal/catalog"
	"github.com/kurkanduk/gigabroom/internal/format"
	"github.com/kurkanduk/gigabroom/internal/report"
	"github.com/kurkanduk/gigabroom/internal/scanner"
	"github.com/kurkanduk/gigabroom/internal/ui"
)

var scanFlags struct {
	maxDepth   int
	forceScan  bool
	index      bool
	minSize    string
	nameGlob   string
	categories []string
	jsonOut    bool
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Find build artifacts without deleting anything",
	Long: `Walk a directory tree and report deletable build artifacts grouped by
category. Results are cached briefly so an immediately following clean
does not rescan.`,
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

		opts, err := scanOptions(e.cfg.MaxDepth, e.cfg.Workers)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		res, err := e.resolveResult(ctx, root, opts, scanFlags.forceScan, scanFlags.jsonOut)
		if err != nil {
			return &ExitError{Code: 1, Msg: err.Error()}
		}

		if scanFlags.jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report.Summarize(res))
		}

		ui.WriteScanSummary(os.Stdout, report.Summarize(res))
		if !quiet {
			ui.WriteDiskPanel(os.Stdout, root)
			for _, w := range e.scanner.Warnings() {
				fmt.Fprintln(os.Stderr, "warning:", w)
			}
		}
		return nil
	},
}

// scanOptions translates flags into scanner options, falling back to
// config defaults where a flag was not given.
func scanOptions(defaultDepth, workers int) (scanner.Options, error) {
	opts := scanner.Options{
		Params: scanner.Params{
			MaxDepth:  scanFlags.maxDepth,
			NameGlob:  scanFlags.nameGlob,
			IndexMode: scanFlags.index,
		},
		Workers: workers,
	}
	if opts.MaxDepth < 0 {
		opts.MaxDepth = defaultDepth
	}

	if scanFlags.minSize != "" {
		n, err := format.ParseSize(scanFlags.minSize)
		if err != nil {
			return opts, err
		}
		opts.MinSize = n
	}

	for _, name := range scanFlags.categories {
		c, err := catalog.ParseCategory(name)
		if err != nil {
			return opts, err
		}
		opts.Categories = append(opts.Categories, c)
	}
	return opts, nil
}

func init() {
	scanCmd.Flags().IntVarP(&scanFlags.maxDepth, "max-depth", "d", -1, "Maximum directory depth (0 = unlimited)")
	scanCmd.Flags().BoolVar(&scanFlags.forceScan, "force", false, "Ignore the cache and rescan")
	scanCmd.Flags().BoolVar(&scanFlags.index, "index", false, "Use the OS file index when available (macOS Spotlight)")
	scanCmd.Flags().StringVar(&scanFlags.minSize, "min-size", "", "Only report artifacts of at least this size (e.g. 100MB)")
	scanCmd.Flags().StringVar(&scanFlags.nameGlob, "name", "", "Only report artifacts whose name matches this glob")
	scanCmd.Flags().StringSliceVarP(&scanFlags.categories, "category", "c", nil, "Only report these categories (rust, node, python, ...)")
	scanCmd.Flags().BoolVar(&scanFlags.jsonOut, "json", false, "Print the result as JSON")
}

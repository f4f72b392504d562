package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/kurkanduk/gigabroom/internal/cache"
	"github.com/kurkanduk/gigabroom/internal/catalog"
	"github.com/kurkanduk/gigabroom/internal/cleaner"
	"github.com/kurkanduk/gigabroom/internal/config"
	"github.com/kurkanduk/gigabroom/internal/format"
	"github.com/kurkanduk/gigabroom/internal/logging"
	"github.com/kurkanduk/gigabroom/internal/scanner"
	"github.com/kurkanduk/gigabroom/internal/selection"
	"github.com/kurkanduk/gigabroom/internal/ui"
)

// ExitError carries a process exit code up to main without losing the
// message. Code 2 means a partial failure: some entries could not be
// deleted but the run completed.
type ExitError struct {
	Code int
	Msg  string
}

func (e *ExitError) Error() string { return e.Msg }

// engine bundles the wired-up core components every subcommand needs.
type engine struct {
	cfg     *config.Config
	log     *slog.Logger
	catalog *catalog.Catalog
	cache   *cache.Cache
	scanner *scanner.Scanner
	cleaner *cleaner.Cleaner
}

func newEngine() (*engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := logging.Setup(debug)

	var copts []catalog.Option
	for ruleID, markers := range cfg.ExtraMarkers {
		copts = append(copts, catalog.WithExtraMarkers(ruleID, markers...))
	}
	cat := catalog.New(copts...)

	var optIn []catalog.Category
	for _, name := range cfg.OptInCategories {
		c, err := catalog.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("config opt_in_categories: %w", err)
		}
		optIn = append(optIn, c)
	}

	rc := cache.New(cache.DefaultPath(), log, cache.WithTTL(cfg.CacheTTL))
	sc := scanner.New(cat, scanner.SystemIndex(), log)
	cl := cleaner.New(cat, log, cfg.ProtectedPaths(), optIn...)

	return &engine{
		cfg:     cfg,
		log:     log,
		catalog: cat,
		cache:   rc,
		scanner: sc,
		cleaner: cl,
	}, nil
}

// signalContext returns a context cancelled by Ctrl-C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// resolveRoot normalizes the optional positional path argument.
func resolveRoot(args []string) (string, error) {
	root := "."
	if len(args) > 0 {
		root = format.ExpandTilde(args[0])
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", root, err)
	}
	return abs, nil
}

// resolveResult serves a scan from the cache when the parameters match
// and the result is fresh, otherwise scans and stores. forceScan always
// rescans. With a terminal and no quiet/json flags the scan runs behind
// the progress UI.
func (e *engine) resolveResult(ctx context.Context, root string, opts scanner.Options, forceScan, jsonOut bool) (*scanner.Result, error) {
	if !forceScan {
		if res := e.cache.Get(root, opts.Params); res != nil {
			e.log.Debug("serving scan from cache", "root", root)
			return res, nil
		}
	}

	var res *scanner.Result
	var err error
	if useTUI(jsonOut) {
		res, err = ui.RunScan(ctx, e.scanner, root, opts)
	} else {
		res, err = e.scanner.Scan(ctx, root, opts)
	}
	if err != nil {
		return nil, err
	}

	if err := e.cache.Put(res); err != nil {
		e.log.Warn("could not write result cache", "err", err)
	}
	return res, nil
}

func useTUI(jsonOut bool) bool {
	return !jsonOut && !quiet && isatty.IsTerminal(os.Stdout.Fd())
}

// interactiveCleanFlow is the menu-driven path: scan, browse, confirm,
// delete, report.
func interactiveCleanFlow(root string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	root, err = resolveRoot([]string{root})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	opts := scanner.Options{
		Params:  scanner.Params{MaxDepth: e.cfg.MaxDepth},
		Workers: e.cfg.Workers,
	}
	res, err := e.resolveResult(ctx, root, opts, false, false)
	if err != nil {
		return err
	}
	if len(res.Entries) == 0 {
		fmt.Printf("Nothing to clean under %s\n", root)
		return nil
	}

	sel, confirmed, err := ui.RunBrowser(res)
	if err != nil {
		return err
	}
	if !confirmed || sel.Count() == 0 {
		return nil
	}

	rep := e.cleaner.Clean(ctx, sel, cleaner.Options{})
	if rep.Succeeded > 0 && !rep.DryRun {
		if err := e.cache.Clear(); err != nil {
			e.log.Warn("could not clear result cache", "err", err)
		}
	}

	ui.WriteCleanSummary(os.Stdout, rep)
	ui.WriteDiskPanel(os.Stdout, root)
	return cleanExitErr(rep)
}

// cleanExitErr maps a report onto the process exit status.
func cleanExitErr(rep *cleaner.Report) error {
	if len(rep.Failed) == 0 {
		return nil
	}
	msg := fmt.Sprintf("%d of %d entries could not be deleted", len(rep.Failed), rep.Attempted)
	if rep.AllFailed() {
		msg = fmt.Sprintf("none of the %d entries could be deleted", rep.Attempted)
	}
	return &ExitError{Code: 2, Msg: msg}
}

// applySelectionFlags builds a selection from the non-interactive clean
// flags.
func applySelectionFlags(sel *selection.Selection, categories []string, all bool) error {
	for _, name := range categories {
		c, err := catalog.ParseCategory(name)
		if err != nil {
			return err
		}
		sel.AddCategory(c)
	}
	if all {
		sel.AddAll()
	}
	return nil
}

// printCacheInfo renders `cache info` and the interactive menu's view.
func printCacheInfo(w io.Writer) error {
	e, err := newEngine()
	if err != nil {
		return err
	}

	info := e.cache.Stat()
	if !info.Exists {
		fmt.Fprintf(w, "No cache at %s\n", info.Path)
		return nil
	}

	state := "stale"
	if info.Fresh {
		state = "fresh"
	}
	fmt.Fprintf(w, "Cache file: %s (%s on disk)\n", info.Path, format.Size(info.SizeOnDisk))
	fmt.Fprintf(w, "Scan root:  %s\n", info.Root)
	fmt.Fprintf(w, "Entries:    %s\n", humanize.Comma(int64(info.EntryCount)))
	fmt.Fprintf(w, "Age:        %s (%s)\n", info.Age.Round(time.Second), state)
	return nil
}

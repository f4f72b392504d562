package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/kurkanduk/gigabroom/internal/scanner"
)

// ─── Messages ────────────────────────────────────────────────────────────────

type scanDoneMsg struct {
	res *scanner.Result
	err error
}

type counterTickMsg time.Time

// ─── Model ───────────────────────────────────────────────────────────────────

// ScanModel shows a spinner with live visited/found counters while a
// scan runs in the background.
type ScanModel struct {
	sc     *scanner.Scanner
	root   string
	opts   scanner.Options
	ctx    context.Context
	cancel context.CancelFunc

	spin    spinner.Model
	visited int64
	found   int64

	res      *scanner.Result
	err      error
	done     bool
	quitting bool
}

// NewScanModel creates the progress model. The scan starts on Init.
func NewScanModel(ctx context.Context, sc *scanner.Scanner, root string, opts scanner.Options) ScanModel {
	ctx, cancel := context.WithCancel(ctx)
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = SpinnerStyle()
	return ScanModel{sc: sc, root: root, opts: opts, ctx: ctx, cancel: cancel, spin: sp}
}

func (m ScanModel) startScan() tea.Cmd {
	return func() tea.Msg {
		res, err := m.sc.Scan(m.ctx, m.root, m.opts)
		return scanDoneMsg{res: res, err: err}
	}
}

func (m ScanModel) tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return counterTickMsg(t)
	})
}

func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(m.startScan(), m.spin.Tick, m.tick())
}

func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			m.cancel()
			return m, nil // scanDoneMsg arrives once the scan unwinds
		}
		return m, nil

	case counterTickMsg:
		m.visited = m.sc.Visited()
		m.found = m.sc.Found()
		if m.done {
			return m, nil
		}
		return m, m.tick()

	case scanDoneMsg:
		m.done = true
		m.res = msg.res
		m.err = msg.err
		m.visited = m.sc.Visited()
		m.found = m.sc.Found()
		m.cancel()
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ScanModel) View() string {
	if m.done {
		return ""
	}
	line := fmt.Sprintf(" %s Scanning %s  %s items visited, %d artifacts found",
		m.spin.View(), m.root,
		humanize.Comma(m.visited), m.found)
	hint := HintBarStyle().Render("   q cancel")
	return line + "\n" + hint + "\n"
}

// Result returns the finished scan, or the error that ended it.
func (m ScanModel) Result() (*scanner.Result, error) {
	if m.quitting && m.err == nil && m.res == nil {
		return nil, context.Canceled
	}
	return m.res, m.err
}

// RunScan drives the progress UI to completion and returns the result.
func RunScan(ctx context.Context, sc *scanner.Scanner, root string, opts scanner.Options) (*scanner.Result, error) {
	model, err := tea.NewProgram(NewScanModel(ctx, sc, root, opts)).Run()
	if err != nil {
		return nil, err
	}
	return model.(ScanModel).Result()
}

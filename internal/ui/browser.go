package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kurkanduk/gigabroom/internal/catalog"
	"github.com/kurkanduk/gigabroom/internal/format"
	"github.com/kurkanduk/gigabroom/internal/report"
	"github.com/kurkanduk/gigabroom/internal/scanner"
	"github.com/kurkanduk/gigabroom/internal/selection"
)

// ─── Rows ────────────────────────────────────────────────────────────────────

// The browser flattens grouped results into one scrollable list: a
// header row per category followed by its entry rows.
type rowKind int

const (
	rowHeader rowKind = iota
	rowEntry
)

type row struct {
	kind     rowKind
	category catalog.Category
	entry    scanner.Entry
}

// ─── Model ───────────────────────────────────────────────────────────────────

// BrowserModel lets the user pick artifacts out of a scan result.
type BrowserModel struct {
	res    *scanner.Result
	groups []report.Group
	sel    *selection.Selection
	rows   []row

	cursor int
	offset int
	width  int
	height int

	confirming bool
	confirmed  bool
	quitting   bool
}

// NewBrowserModel builds the browser over a scan result.
func NewBrowserModel(res *scanner.Result) BrowserModel {
	groups := report.GroupEntries(res.Entries)
	var rows []row
	for _, g := range groups {
		rows = append(rows, row{kind: rowHeader, category: g.Category})
		for _, e := range g.Entries {
			rows = append(rows, row{kind: rowEntry, category: g.Category, entry: e})
		}
	}
	return BrowserModel{
		res:    res,
		groups: groups,
		sel:    selection.New(res),
		rows:   rows,
		width:  80,
		height: 24,
	}
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.confirming {
			switch msg.String() {
			case "y", "enter":
				// An explicit confirmation doubles as the opt-in for
				// every caution category in the selection.
				for _, c := range m.sel.Categories() {
					if c.Danger() == catalog.Caution {
						m.sel.AddCategory(c)
					}
				}
				m.confirmed = true
				return m, tea.Quit
			case "n", "esc":
				m.confirming = false
			case "q", "ctrl+c":
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.ensureVisible()
			}

		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				m.ensureVisible()
			}

		case " ":
			m.toggleAtCursor()

		case "a":
			m.sel.AddAll()

		case "n":
			for _, e := range m.sel.Entries() {
				m.sel.Remove(e.Path)
			}

		case "enter":
			if m.sel.Count() > 0 {
				m.confirming = true
			}
		}
		return m, nil
	}

	return m, nil
}

// toggleAtCursor flips one entry, or a whole category when the cursor
// sits on a header row.
func (m *BrowserModel) toggleAtCursor() {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return
	}
	r := m.rows[m.cursor]
	if r.kind == rowEntry {
		m.sel.Toggle(r.entry.Path)
		return
	}

	for _, g := range m.groups {
		if g.Category != r.category {
			continue
		}
		all := true
		for _, e := range g.Entries {
			if !m.sel.Contains(e.Path) {
				all = false
				break
			}
		}
		if all {
			for _, e := range g.Entries {
				m.sel.Remove(e.Path)
			}
		} else {
			m.sel.AddCategory(g.Category)
		}
		return
	}
}

func (m *BrowserModel) ensureVisible() {
	vh := m.viewportHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

func (m BrowserModel) viewportHeight() int {
	h := m.height - 7 // header (3) + footer (4)
	if h < 1 {
		h = 1
	}
	return h
}

// ─── View ────────────────────────────────────────────────────────────────────

func (m BrowserModel) View() string {
	if m.quitting || m.confirmed {
		return ""
	}
	if m.confirming {
		return m.renderConfirm()
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n")

	vh := m.viewportHeight()
	for i := m.offset; i < len(m.rows) && i < m.offset+vh; i++ {
		s.WriteString(m.renderRow(i))
		s.WriteString("\n")
	}

	s.WriteString(m.renderFooter())
	return s.String()
}

func (m BrowserModel) renderHeader() string {
	title := TitleStyle().Render("  " + IconBroom + " Scan results " + IconChevron + " " + m.res.Root)
	stats := lipgloss.NewStyle().Foreground(ColorTextDim).Render(fmt.Sprintf(
		"  %d artifacts, %s total", len(m.res.Entries), format.Size(m.res.TotalSize)))
	return title + "\n" + stats + "\n"
}

func (m BrowserModel) renderRow(i int) string {
	r := m.rows[i]
	cursor := "  "
	if i == m.cursor {
		cursor = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(IconBlock) + " "
	}

	if r.kind == rowHeader {
		for _, g := range m.groups {
			if g.Category != r.category {
				continue
			}
			label := fmt.Sprintf("%s  %d items  %s", g.Category, g.Count, format.Size(g.TotalSize))
			line := cursor + TitleStyle().Render(label) +
				"  " + Bar(g.Percent(m.res.TotalSize), 12)
			if g.Danger == catalog.Caution {
				line += "  " + TagCautionStyle().Render(" caution ")
			}
			return line
		}
	}

	mark := lipgloss.NewStyle().Foreground(ColorMuted).Render(IconEmpty)
	if m.sel.Contains(r.entry.Path) {
		mark = lipgloss.NewStyle().Foreground(ColorGreen).Render(IconSelect)
	}
	path := format.TruncatePath(r.entry.Path, m.width-20)
	size := lipgloss.NewStyle().Foreground(ColorTextDim).Render(format.Size(r.entry.Size))
	return fmt.Sprintf("%s  %s %s  %s", cursor, mark, path, size)
}

func (m BrowserModel) renderFooter() string {
	selected := fmt.Sprintf("  %d selected, %s", m.sel.Count(), format.Size(m.sel.TotalSize()))
	hints := []string{
		"↑↓ nav",
		"space select",
		"a all",
		"n none",
		"enter clean",
		"q quit",
	}
	return lipgloss.NewStyle().Foreground(ColorText).Render(selected) + "\n" +
		HintBarStyle().Render("  "+strings.Join(hints, " "+IconPipe+" "))
}

func (m BrowserModel) renderConfirm() string {
	var s strings.Builder
	s.WriteString(TitleStyle().Render("  Delete selected artifacts?"))
	s.WriteString("\n\n")

	for _, g := range report.GroupEntries(m.sel.Entries()) {
		line := fmt.Sprintf("  %s %-18s %3d items  %s",
			IconBullet, g.Category.String(), g.Count, format.Size(g.TotalSize))
		if g.Danger == catalog.Caution {
			line += "  " + TagCautionStyle().Render(" "+IconWarning+" re-download required ")
		}
		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ColorText).
		Render(fmt.Sprintf("  Total: %s in %d items", format.Size(m.sel.TotalSize()), m.sel.Count())))
	s.WriteString("\n\n")
	s.WriteString(HintBarStyle().Render("  y confirm " + IconPipe + " n back " + IconPipe + " q quit"))
	s.WriteString("\n")
	return s.String()
}

// Selection returns the picks and whether the user confirmed deletion.
func (m BrowserModel) Selection() (*selection.Selection, bool) {
	return m.sel, m.confirmed
}

// RunBrowser drives the browser and returns the confirmed selection.
// The bool is false when the user backed out.
func RunBrowser(res *scanner.Result) (*selection.Selection, bool, error) {
	model, err := tea.NewProgram(NewBrowserModel(res)).Run()
	if err != nil {
		return nil, false, err
	}
	sel, ok := model.(BrowserModel).Selection()
	return sel, ok, nil
}

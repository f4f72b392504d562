package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuAction is what the user picked from the main menu.
type MenuAction int

const (
	MenuScanCwd MenuAction = iota
	MenuScanHome
	MenuCacheInfo
	MenuQuit
)

var menuItems = []struct {
	action MenuAction
	label  string
	detail string
}{
	{MenuScanCwd, "Scan current directory", "find build artifacts under ."},
	{MenuScanHome, "Scan home directory", "find build artifacts under ~"},
	{MenuCacheInfo, "Cache info", "show the cached scan result"},
	{MenuQuit, "Quit", ""},
}

// MenuModel is the top-level interactive menu.
type MenuModel struct {
	cursor   int
	choice   MenuAction
	chosen   bool
	quitting bool
}

func NewMenuModel() MenuModel {
	return MenuModel{choice: MenuQuit}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}

	case "enter":
		m.choice = menuItems[m.cursor].action
		m.chosen = true
		return m, tea.Quit
	}
	return m, nil
}

func (m MenuModel) View() string {
	if m.quitting || m.chosen {
		return ""
	}

	var s strings.Builder
	s.WriteString("\n")
	s.WriteString(TitleStyle().Render("  " + IconBroom + " gigabroom"))
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Foreground(ColorTextDim).
		Render("  Sweep build artifacts and dev caches off your disk"))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		cursor := "  "
		label := lipgloss.NewStyle().Foreground(ColorText).Render(item.label)
		if i == m.cursor {
			cursor = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(IconBlock) + " "
			label = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(item.label)
		}
		s.WriteString(cursor + label)
		if item.detail != "" {
			s.WriteString(HintBarStyle().Render("  " + IconChevron + " " + item.detail))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HintBarStyle().Render("  ↑↓ nav " + IconPipe + " enter select " + IconPipe + " q quit"))
	s.WriteString("\n")
	return s.String()
}

// RunMenu shows the menu and returns the chosen action. Quitting the
// program returns MenuQuit.
func RunMenu() (MenuAction, error) {
	model, err := tea.NewProgram(NewMenuModel()).Run()
	if err != nil {
		return MenuQuit, err
	}
	m := model.(MenuModel)
	if !m.chosen {
		return MenuQuit, nil
	}
	return m.choice, nil
}

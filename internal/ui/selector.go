package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

const (
	listHeight       = 8
	detailLabelWidth = 12
	minWidth         = 60
	maxWidth         = 120
)

// ErrSelectionCancelled is returned when the user leaves a picker without choosing
var ErrSelectionCancelled = errors.New("selection cancelled")

// PickItem is one selectable row of a picker
type PickItem struct {
	Name    string
	Columns []string    // extra columns shown after the name
	Details [][2]string // label/value pairs for the details panel
	Current bool        // marked with * and preselected
}

// PickModel is the bubbletea model for filtering and picking one item by name
type PickModel struct {
	noun         string
	items        []PickItem
	filtered     []PickItem
	cursor       int
	offset       int
	search       string
	selected     string
	quitting     bool
	cancelled    bool
	termWidth    int
	contentWidth int
	colWidths    []int // [Name, Columns...]
}

func newPickModel(noun string, items []PickItem) PickModel {
	m := PickModel{
		noun:      noun,
		items:     items,
		filtered:  items,
		termWidth: 80,
	}
	for i, item := range items {
		if item.Current {
			m.cursor = i
			if m.cursor >= listHeight {
				m.offset = m.cursor - listHeight + 1
			}
			break
		}
	}
	m.calculateWidths()
	return m
}

func (m *PickModel) calculateWidths() {
	m.contentWidth = min(max(m.termWidth-2, minWidth), maxWidth)

	extra := 0
	for _, item := range m.items {
		extra = max(extra, len(item.Columns))
	}
	cols := make([]int, extra)
	for _, item := range m.items {
		for i, c := range item.Columns {
			cols[i] = max(cols[i], runewidth.StringWidth(c))
		}
	}

	// cursor+marker(3) + name + (sp(2) + col)...
	fixedW := 3
	for _, w := range cols {
		fixedW += 2 + w
	}
	nameW := max(m.contentWidth-fixedW, 10)

	m.colWidths = append([]int{nameW}, cols...)
}

// Init implements tea.Model.
func (m PickModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m PickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.calculateWidths()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			m.cancelled = true
			return m, tea.Quit

		case tea.KeyEnter:
			if len(m.filtered) > 0 {
				m.selected = m.filtered[m.cursor].Name
				m.quitting = true
				return m, tea.Quit
			}

		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}

		case tea.KeyDown:
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				if m.cursor >= m.offset+listHeight {
					m.offset = m.cursor - listHeight + 1
				}
			}

		case tea.KeyBackspace:
			if len(m.search) > 0 {
				m.search = m.search[:len(m.search)-1]
				m.filter()
			}

		case tea.KeyRunes:
			m.search += string(msg.Runes)
			m.filter()
		}
	}

	return m, nil
}

func (m *PickModel) filter() {
	if m.search == "" {
		m.filtered = m.items
	} else {
		query := strings.ToLower(m.search)
		m.filtered = nil
		for _, item := range m.items {
			if strings.Contains(strings.ToLower(item.Name), query) {
				m.filtered = append(m.filtered, item)
			}
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
	m.offset = 0
}

func (m PickModel) blankLine(sb *strings.Builder) {
	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString(strings.Repeat(" ", m.contentWidth))
	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString("\n")
}

// View implements tea.Model.
func (m PickModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	w := m.contentWidth

	sb.WriteString(BorderStyle.Render(TopLeft + strings.Repeat(Horizontal, w) + TopRight))
	sb.WriteString("\n")

	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString(NameStyle.Render(padToWidth(" > "+m.search, w)))
	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString("\n")
	m.blankLine(&sb)

	visibleEnd := min(m.offset+listHeight, len(m.filtered))
	for i := m.offset; i < visibleEnd; i++ {
		sb.WriteString(m.renderRow(i))
	}
	for i := visibleEnd; i < m.offset+listHeight; i++ {
		m.blankLine(&sb)
	}
	m.blankLine(&sb)

	sb.WriteString(BorderStyle.Render(LeftT + strings.Repeat(Horizontal, w) + RightT))
	sb.WriteString("\n")

	sb.WriteString(m.renderDetails())

	sb.WriteString(BorderStyle.Render(BottomLeft + strings.Repeat(Horizontal, w) + BottomRight))
	sb.WriteString("\n")

	sb.WriteString(m.renderStatusBar())
	return sb.String()
}

func (m PickModel) renderRow(idx int) string {
	item := m.filtered[idx]

	cursor := " "
	if idx == m.cursor {
		cursor = ">"
	}
	marker := " "
	if item.Current {
		marker = "*"
	}

	var line strings.Builder
	plainWidth := 3
	line.WriteString(" " + cursor + marker)

	nameText := padRight(item.Name, m.colWidths[0])
	if item.Current {
		line.WriteString(SuccessStyle.Render(nameText))
	} else {
		line.WriteString(NameStyle.Render(nameText))
	}
	plainWidth += m.colWidths[0]

	for i, width := range m.colWidths[1:] {
		value := "-"
		if i < len(item.Columns) && item.Columns[i] != "" {
			value = item.Columns[i]
		}
		line.WriteString("  ")
		line.WriteString(MutedStyle.Render(padRight(value, width)))
		plainWidth += 2 + width
	}

	if plainWidth < m.contentWidth {
		line.WriteString(strings.Repeat(" ", m.contentWidth-plainWidth))
	}

	return BorderStyle.Render(Vertical) + line.String() + BorderStyle.Render(Vertical) + "\n"
}

func (m PickModel) renderDetails() string {
	var sb strings.Builder
	w := m.contentWidth

	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString(HeaderStyle.Render(padToWidth(" Details", w)))
	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString("\n")

	if len(m.filtered) == 0 {
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString(MutedStyle.Render(padToWidth(fmt.Sprintf(" No %s found", m.noun), w)))
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString("\n")
		return sb.String()
	}

	for _, d := range m.filtered[m.cursor].Details {
		value := d[1]
		if value == "" {
			value = "-"
		}
		maxValueWidth := w - 1 - detailLabelWidth
		if runewidth.StringWidth(value) > maxValueWidth {
			value = runewidth.Truncate(value, maxValueWidth, "...")
		}

		plainWidth := 1 + detailLabelWidth + runewidth.StringWidth(value)
		line := MutedStyle.Render(" "+padRight(d[0], detailLabelWidth)) + ValueStyle.Render(value)
		if plainWidth < w {
			line += strings.Repeat(" ", w-plainWidth)
		}

		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString(line)
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString("\n")
	}
	m.blankLine(&sb)

	return sb.String()
}

func (m PickModel) renderStatusBar() string {
	w := m.contentWidth + 2

	countInfo := fmt.Sprintf("  %d/%d %s", len(m.filtered), len(m.items), m.noun)
	hints := "[Enter:select] [Esc:quit]"

	padding := w - runewidth.StringWidth(countInfo) - runewidth.StringWidth(hints)
	if padding < 1 {
		padding = 1
	}
	return countInfo + strings.Repeat(" ", padding) + HintStyle.Render(hints) + "\n"
}

// padToWidth pads or truncates s to exactly width display cells
func padToWidth(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw > width {
		return runewidth.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-sw)
}

// Pick runs the picker TUI and returns the chosen item's name
func Pick(noun string, items []PickItem) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no %s available", noun)
	}

	p := tea.NewProgram(newPickModel(noun, items))
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("error running selector: %w", err)
	}

	result := finalModel.(PickModel)
	if result.cancelled {
		return "", ErrSelectionCancelled
	}
	return result.selected, nil
}

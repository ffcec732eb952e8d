package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"tododay/internal/model"
)

var (
	colorActive   = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorInactive = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorMuted    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorInactive).
			Padding(0, 1)
	activePaneStyle = paneStyle.BorderForeground(colorActive)
	titleStyle      = lipgloss.NewStyle().Bold(true)
	selectedStyle   = lipgloss.NewStyle().Foreground(colorActive).Bold(true)
	statusStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	barStyle        = lipgloss.NewStyle().Foreground(colorActive)
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	barWidth      = 12
	barHeight     = 5
)

func (m Model) View() string {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}

	var body string
	switch m.screen {
	case ScreenStats:
		body = m.statsView(w)
	case ScreenDailyTodos, ScreenNewDailyTodo:
		body = m.dailyTodosView(w)
	default:
		body = m.todosView(w, h)
	}

	footer := m.help.View(screenHelp{keys: m.keys, screen: m.screen})
	return lipgloss.JoinVertical(lipgloss.Left, body, statusStyle.Render(m.status), footer)
}

func (m Model) todosView(w, h int) string {
	day := m.tracker.Day()
	left := w * 3 / 10
	right := w - left - 4
	paneHeight := max(h-6, 3)

	todosActive := m.screen == ScreenTodos || m.screen == ScreenNewTodo
	todos := renderList(m.Labels(), m.cursor, m.screen == ScreenTodos)
	if m.screen == ScreenNewTodo {
		todos += "\n\n" + titleStyle.Render("New TODO") + "\n" + m.input.View()
	}
	todoPane := pane(todosActive).Width(left).Height(paneHeight).Render(
		titleStyle.Render(fmt.Sprintf("TODOs | %s  %d/%d", day.Date, day.DoneTodos, day.CountTodos)) + "\n" + todos,
	)

	notesTitle := "Notes"
	notes := day.Notes
	if m.screen == ScreenEditNotes {
		notesTitle += "*"
		notes = m.notes.View()
	}
	notesActive := m.screen == ScreenNotes || m.screen == ScreenEditNotes
	notesPane := pane(notesActive).Width(right).Height(paneHeight).Render(
		titleStyle.Render(notesTitle) + "\n" + notes,
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, todoPane, notesPane)
}

func (m Model) dailyTodosView(w int) string {
	content := renderList(m.Labels(), m.dailyCursor, m.screen == ScreenDailyTodos)
	if len(m.tracker.DailyTodos()) == 0 {
		content = statusStyle.Render("No daily todos. They are copied into every new day.")
	}
	if m.screen == ScreenNewDailyTodo {
		content += "\n\n" + titleStyle.Render("New Daily TODO") + "\n" + m.input.View()
	}
	box := pane(true).Width(max(w*3/10, 30)).Render(titleStyle.Render("Daily TODOs") + "\n" + content)
	return lipgloss.PlaceHorizontal(w, lipgloss.Center, box)
}

func (m Model) statsView(w int) string {
	entries := m.tracker.DayIndex()
	chart := pane(true).Width(w - 2).Render(titleStyle.Render("Days") + "\n" + renderBars(entries, m.statsCursor))
	if len(entries) == 0 {
		return chart
	}

	day := m.statsDay
	left := w * 3 / 10
	labels := make([]string, len(day.Todos))
	for i, t := range day.Todos {
		labels[i] = t.Label()
	}
	title := fmt.Sprintf("TODOs | %s", day.Date)
	if when, err := time.ParseInLocation(model.DateLayout, day.Date, time.Local); err == nil {
		title += " (" + humanize.Time(when) + ")"
	}
	todoPane := pane(false).Width(left).Render(titleStyle.Render(title) + "\n" + renderList(labels, -1, false))
	notesPane := pane(false).Width(w - left - 4).Render(titleStyle.Render("Notes") + "\n" + day.Notes)
	return lipgloss.JoinVertical(lipgloss.Left, chart, lipgloss.JoinHorizontal(lipgloss.Top, todoPane, notesPane))
}

// renderBars draws one column per day whose height follows its done count.
func renderBars(entries []model.DayIndexEntry, selected int) string {
	if len(entries) == 0 {
		return statusStyle.Render("No days yet")
	}
	peak := 1
	for _, e := range entries {
		peak = max(peak, e.Done)
	}
	cols := make([]string, len(entries))
	for i, e := range entries {
		filled := e.Done * barHeight / peak
		if e.Done > 0 && filled == 0 {
			filled = 1
		}
		lines := make([]string, 0, barHeight+2)
		for row := barHeight; row > 0; row-- {
			if row <= filled {
				lines = append(lines, barStyle.Render(strings.Repeat("█", barWidth-2)))
			} else {
				lines = append(lines, strings.Repeat(" ", barWidth-2))
			}
		}
		lines = append(lines, fmt.Sprintf("%*s", (barWidth-2)/2+1, e.Progress()))
		label := "-" + e.Date + "-"
		style := lipgloss.NewStyle()
		if i == selected {
			label = "*" + e.Date + "*"
			style = selectedStyle
		}
		lines = append(lines, style.Render(label))
		cols[i] = lipgloss.NewStyle().Width(barWidth + 1).Render(strings.Join(lines, "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, cols...)
}

func renderList(labels []string, cursor int, active bool) string {
	var b strings.Builder
	for i, l := range labels {
		if i > 0 {
			b.WriteString("\n")
		}
		if active && i == cursor {
			b.WriteString(selectedStyle.Render("> " + l))
			continue
		}
		b.WriteString("  " + l)
	}
	return b.String()
}

func pane(active bool) lipgloss.Style {
	if active {
		return activePaneStyle
	}
	return paneStyle
}

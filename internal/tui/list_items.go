package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"lostaf-cli/internal/model"
)

// itemRow adapts a report to the bubbles list.
type itemRow struct {
	item model.Item
}

func (r itemRow) FilterValue() string {
	return r.item.Title + " " + r.item.Category + " " + r.item.Location
}

func (r itemRow) Title() string {
	badge := typeBadge(r.item.Type == model.ItemLost)
	title := r.item.Title
	if r.item.Status == model.StatusResolved {
		title = resolvedStyle.Render(title + " (resolved)")
	}
	meta := labelStyle.Render(r.item.Category + " · " + r.item.Location)
	return badge + " " + title + "  " + meta
}

func itemRows(items []model.Item) []list.Item {
	rows := make([]list.Item, 0, len(items))
	for _, it := range items {
		rows = append(rows, itemRow{item: it})
	}
	return rows
}

type itemRowDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newItemRowDelegate() itemRowDelegate {
	return itemRowDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d itemRowDelegate) Height() int  { return 1 }
func (d itemRowDelegate) Spacing() int { return 0 }
func (d itemRowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d itemRowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	txt := ""
	if t, ok := item.(interface{ Title() string }); ok {
		txt = t.Title()
	} else {
		txt = fmt.Sprint(item)
	}

	line := txt
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	fmt.Fprint(w, style.Render(line))
}

func newList(items []list.Item) list.Model {
	l := list.New(items, newItemRowDelegate(), 0, 0)
	// We render our own global header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// Server-side filtering drives the listing; the list's own fuzzy filter
	// would fight with it.
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("item", "items")
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("ctrl+c")
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

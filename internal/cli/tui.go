package cli

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/treetui/pkg/errors"
	"github.com/matzehuels/treetui/pkg/pipeline"
	"github.com/matzehuels/treetui/pkg/tree"
)

// maxRows bounds "expand subtree" on very large or self-referencing views.
const maxRows = 20000

// chrome is the number of screen lines not used by tree rows.
const chrome = 4

// treeRow is one visible line of the browser.
type treeRow struct {
	id       tree.NodeID
	depth    int
	expanded bool
}

// reloadMsg carries a reparsed tree after the watched file changed.
type reloadMsg struct {
	res *pipeline.Result
	err error
}

// watchErrMsg reports a watcher failure, such as the file being removed.
type watchErrMsg struct{ err error }

// watchSource feeds file changes into the program.
type watchSource struct {
	changes <-chan struct{}
	errs    <-chan error
	reload  func() tea.Msg
}

// wait blocks for the next change or error. It returns nil once the
// watcher has stopped.
func (s *watchSource) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case _, ok := <-s.changes:
			if !ok {
				return nil
			}
			return s.reload()
		case err := <-s.errs:
			return watchErrMsg{err}
		}
	}
}

// treeModel is the bubbletea model of the tree browser. Children are turned
// into rows only when their parent is expanded.
type treeModel struct {
	title  string
	view   tree.Source
	refs   tree.Referencer
	rows   []treeRow
	cursor int
	offset int
	width  int
	height int
	status string
	keys   keyMap
	copy   func(string) error
	watch  *watchSource
}

func newTreeModel(title string, res *pipeline.Result) treeModel {
	m := treeModel{
		title:  title,
		width:  80,
		height: 24,
		keys:   defaultKeyMap(),
		copy:   clipboard.WriteAll,
	}
	m.setResult(res)
	return m
}

// setResult shows res with the root's children visible. Nodes expanded in
// the previous tree stay expanded when their ids still exist.
func (m *treeModel) setResult(res *pipeline.Result) {
	was := make(map[tree.NodeID]bool)
	for _, r := range m.rows {
		if r.expanded {
			was[r.id] = true
		}
	}

	m.view = res.View()
	m.refs = res.Refs()
	m.rows = []treeRow{{id: m.view.Root()}}
	m.cursor, m.offset = 0, 0
	m.expand(0)

	for i := 1; i < len(m.rows) && len(m.rows) < maxRows; i++ {
		if was[m.rows[i].id] && !m.onPath(i) {
			m.expand(i)
		}
	}
}

func (m treeModel) Init() tea.Cmd {
	if m.watch != nil {
		return m.watch.wait()
	}
	return nil
}

func (m treeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case reloadMsg:
		if msg.err != nil {
			m.status = "reload failed: " + errors.UserMessage(msg.err)
		} else {
			cursor := m.cursor
			m.setResult(msg.res)
			m.cursor = min(cursor, len(m.rows)-1)
			m.status = "reloaded"
		}
		return m, m.watch.wait()
	case watchErrMsg:
		m.status = "watch: " + msg.err.Error()
		return m, m.watch.wait()
	case tea.KeyMsg:
		m.status = ""
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)
	}
	m.scroll()
	return m, nil
}

func (m *treeModel) handleKey(msg tea.KeyMsg) {
	row := &m.rows[m.cursor]
	switch {
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Toggle):
		if row.expanded {
			m.collapse(m.cursor)
		} else {
			m.expand(m.cursor)
		}
	case key.Matches(msg, m.keys.Expand):
		if row.expanded {
			m.move(1)
		} else {
			m.expand(m.cursor)
		}
	case key.Matches(msg, m.keys.Parent):
		if p := m.parentRow(m.cursor); p >= 0 {
			m.cursor = p
		}
	case key.Matches(msg, m.keys.ExpandAll):
		m.expandAll(m.cursor)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.rows) - 1
	case key.Matches(msg, m.keys.PageUp):
		m.move(-m.pageSize())
	case key.Matches(msg, m.keys.PageDown):
		m.move(m.pageSize())
	case key.Matches(msg, m.keys.Copy):
		label := m.view.Label(row.id)
		if err := m.copy(label); err != nil {
			m.status = "copy failed: " + err.Error()
		} else {
			m.status = "copied " + label
		}
	}
}

func (m *treeModel) move(delta int) {
	m.cursor = max(0, min(len(m.rows)-1, m.cursor+delta))
}

func (m *treeModel) pageSize() int {
	return max(1, m.height-chrome)
}

// scroll keeps the cursor inside the visible window.
func (m *treeModel) scroll() {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
}

// expand inserts the children of row i below it.
func (m *treeModel) expand(i int) {
	r := &m.rows[i]
	if r.expanded {
		return
	}
	children := m.view.Children(r.id)
	if len(children) == 0 {
		return
	}
	r.expanded = true

	add := make([]treeRow, len(children))
	for j, c := range children {
		add[j] = treeRow{id: c, depth: r.depth + 1}
	}
	m.rows = append(m.rows[:i+1], append(add, m.rows[i+1:]...)...)
	if m.cursor > i {
		m.cursor += len(add)
	}
}

// collapse removes every row below i that belongs to its subtree.
func (m *treeModel) collapse(i int) {
	end := m.subtreeEnd(i)
	m.rows[i].expanded = false
	removed := end - (i + 1)
	m.rows = append(m.rows[:i+1], m.rows[end:]...)
	switch {
	case m.cursor >= end:
		m.cursor -= removed
	case m.cursor > i:
		m.cursor = i
	}
}

// expandAll expands row i and everything below it, skipping rows that would
// repeat one of their own ancestors.
func (m *treeModel) expandAll(i int) {
	m.expand(i)
	depth := m.rows[i].depth
	for j := i + 1; j < len(m.rows) && m.rows[j].depth > depth; j++ {
		if len(m.rows) >= maxRows {
			m.status = fmt.Sprintf("stopped expanding at %d rows", maxRows)
			return
		}
		if !m.onPath(j) {
			m.expand(j)
		}
	}
}

// subtreeEnd returns the index just past the rows below i.
func (m *treeModel) subtreeEnd(i int) int {
	end := i + 1
	for end < len(m.rows) && m.rows[end].depth > m.rows[i].depth {
		end++
	}
	return end
}

// parentRow returns the row index of i's parent, or -1 for the root.
func (m *treeModel) parentRow(i int) int {
	for j := i - 1; j >= 0; j-- {
		if m.rows[j].depth == m.rows[i].depth-1 {
			return j
		}
	}
	return -1
}

// onPath reports whether row i shows the same node as one of its ancestors.
func (m *treeModel) onPath(i int) bool {
	id := m.rows[i].id
	for p := m.parentRow(i); p >= 0; p = m.parentRow(p) {
		if m.rows[p].id == id {
			return true
		}
	}
	return false
}

func (m treeModel) View() string {
	var b strings.Builder
	b.WriteString(styleTUITitle.Render(runewidth.Truncate(m.title, m.width, "…")))
	b.WriteString("\n\n")

	end := min(m.offset+m.pageSize(), len(m.rows))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteByte('\n')
	}
	for i := end - m.offset; i < m.pageSize(); i++ {
		b.WriteByte('\n')
	}

	help := make([]string, 0, len(m.keys.shortHelp()))
	for _, k := range m.keys.shortHelp() {
		help = append(help, k.Help().Key+" "+k.Help().Desc)
	}
	pos := fmt.Sprintf("[%d/%d] ", m.cursor+1, len(m.rows))
	b.WriteString(StyleDim.Render(pos + runewidth.Truncate(strings.Join(help, "  "), max(0, m.width-len(pos)), "…")))
	b.WriteByte('\n')
	if m.status != "" {
		b.WriteString(StyleHighlight.Render(runewidth.Truncate(m.status, m.width, "…")))
	}
	return b.String()
}

func (m treeModel) renderRow(i int) string {
	r := m.rows[i]
	glyph := "  "
	switch {
	case r.expanded:
		glyph = "▾ "
	case len(m.view.Children(r.id)) > 0:
		glyph = "▸ "
	}
	cursor := "  "
	if i == m.cursor {
		cursor = "› "
	}
	prefix := cursor + strings.Repeat("  ", r.depth) + glyph
	label := runewidth.Truncate(m.view.Label(r.id), max(1, m.width-runewidth.StringWidth(prefix)), "…")

	style := styleNode
	if m.refs != nil {
		if _, ok := m.refs.Target(r.id); ok {
			style = styleRef
		}
	}
	if i == m.cursor {
		style = styleSelected
	}
	return StyleDim.Render(prefix) + style.Render(label)
}

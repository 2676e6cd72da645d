package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/finite-repr/index"
	"github.com/wippyai/finite-repr/witshape"
)

const (
	defaultPageSize = 16
	// lines of the view that are not rows
	chromeLines = 7
)

type exploreMode int

const (
	modeBrowse exploreMode = iota
	modeJump
	modeEncode
)

type exploreRow struct {
	err     error
	pos     index.Index
	encoded string
	value   string
}

type exploreModel struct {
	node   *witshape.Node
	target target
	codec  witshape.JSON
	status string
	rows   []exploreRow
	input  textinput.Model

	// sel is the selected index, top the index of the first visible row,
	// last the largest index the backend can represent.
	sel, top, last index.Index
	empty          bool
	height         int
	mode           exploreMode
}

func newExploreModel(n *witshape.Node, t target, codec witshape.JSON) *exploreModel {
	m := &exploreModel{
		node:   n,
		target: t,
		codec:  codec,
		height: defaultPageSize,
	}

	limit := n.Cardinality()
	if t.Cardinality().Less(limit) {
		limit = t.Cardinality()
	}
	if limit.IsZero() {
		m.empty = true
	} else if !limit.IsBounded() {
		m.last = index.Max()
	} else {
		m.last, _ = limit.Sub(index.One())
	}

	m.load()
	return m
}

func (m *exploreModel) Init() tea.Cmd {
	return nil
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-chromeLines, 1)
		m.scroll()
		m.load()
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *exploreModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.empty {
		if s := msg.String(); s == "q" || s == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.sel = m.back(m.sel, 1)
	case "down", "j":
		m.sel = m.forward(m.sel, 1)
	case "pgup", "b":
		m.sel = m.back(m.sel, uint64(m.height))
	case "pgdown", " ", "f":
		m.sel = m.forward(m.sel, uint64(m.height))
	case "home", "g":
		m.sel = index.Zero()
	case "end", "G":
		m.sel = m.last
	case "/":
		m.openInput(modeJump, "encoding: ", m.target.Name()+" value")
		return m, textinput.Blink
	case "e":
		m.openInput(modeEncode, "value: ", "JSON")
		return m, textinput.Blink
	default:
		return m, nil
	}
	m.status = ""
	m.scroll()
	m.load()
	return m, nil
}

func (m *exploreModel) openInput(mode exploreMode, prompt, placeholder string) {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.Width = 40
	ti.Focus()
	m.input = ti
	m.mode = mode
	m.status = ""
}

func (m *exploreModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.mode = modeBrowse
		return m, nil
	case tea.KeyEnter:
		if err := m.submit(m.input.Value()); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.mode = modeBrowse
		m.status = ""
		m.scroll()
		m.load()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit moves the selection to the encoding typed in jump mode, or to the
// encoding of the JSON value typed in encode mode.
func (m *exploreModel) submit(text string) error {
	text = strings.TrimSpace(text)
	if m.mode == modeEncode {
		v, err := m.codec.Unmarshal(m.node, []byte(text))
		if err != nil {
			return err
		}
		if text, err = m.target.Encode(m.node, v); err != nil {
			return err
		}
	}

	i, err := m.target.Index(text)
	if err != nil {
		return err
	}
	if m.last.Less(i) {
		return fmt.Errorf("%s is past the last value", text)
	}
	m.sel = i
	return nil
}

func (m *exploreModel) forward(i index.Index, n uint64) index.Index {
	j, ok := i.CheckedAdd(index.From64(n))
	if !ok || m.last.Less(j) {
		return m.last
	}
	return j
}

func (m *exploreModel) back(i index.Index, n uint64) index.Index {
	j, ok := i.Sub(index.From64(n))
	if !ok {
		return index.Zero()
	}
	return j
}

// scroll keeps the selection inside the visible page.
func (m *exploreModel) scroll() {
	if m.sel.Less(m.top) {
		m.top = m.sel
		return
	}
	if bottom := m.forward(m.top, uint64(m.height-1)); bottom.Less(m.sel) {
		m.top = m.back(m.sel, uint64(m.height-1))
	}
}

func (m *exploreModel) load() {
	m.rows = m.rows[:0]
	if m.empty {
		return
	}
	for i, k := m.top, 0; k < m.height; k++ {
		row := exploreRow{pos: i}
		enc, v, err := m.target.At(m.node, i)
		if err == nil {
			var data []byte
			data, err = m.codec.Marshal(m.node, v)
			row.value = string(data)
		}
		row.encoded = enc
		row.err = err
		m.rows = append(m.rows, row)

		if !i.Less(m.last) {
			break
		}
		i, _ = i.CheckedAdd(index.One())
	}
}

func (m *exploreModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("finite explore"))
	b.WriteString(" ")
	b.WriteString(m.node.String())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%s values, backend %s",
		m.node.Cardinality(), m.target.Name())))
	b.WriteString("\n\n")

	if m.empty {
		b.WriteString("This type has no values.\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	for _, r := range m.rows {
		value, style := r.value, valueStyle
		if r.err != nil {
			value, style = r.err.Error(), errorStyle
		}
		if r.pos.Equal(m.sel) {
			b.WriteString(selectedStyle.Render("> " + r.encoded + "  " + value))
		} else {
			b.WriteString("  " + encodingStyle.Render(r.encoded) + "  " + style.Render(value))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.mode {
	case modeJump, modeEncode:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.status != "" {
			b.WriteString(errorStyle.Render(m.status))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("enter go • esc back"))
	default:
		b.WriteString(helpStyle.Render("↑/↓ move • pgup/pgdn page • g/G first/last • / jump • e encode • q quit"))
	}
	return b.String()
}

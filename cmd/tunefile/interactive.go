package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/ecutools/tunefile"
	"github.com/ecutools/tunefile/codec"
	"github.com/ecutools/tunefile/render"
	"github.com/ecutools/tunefile/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#B33939")).
			Padding(0, 1)

	tableStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#B33939"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	statePickSchema modelState = iota
	statePickImage
	stateSelectTable
	stateViewTable
	stateEditTable
	stateShowResult
)

type interactiveModel struct {
	err      error
	logger   *zap.Logger
	session  *tunefile.Session
	xmlFile  string
	binFile  string
	files    []string
	tables   []*schema.Table
	view     string
	result   string
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type loadedMsg struct {
	err     error
	session *tunefile.Session
	tables  []*schema.Table
}

type editResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(xmlFile, binFile string, logger *zap.Logger) *interactiveModel {
	m := &interactiveModel{
		xmlFile: xmlFile,
		binFile: binFile,
		logger:  logger,
	}
	switch {
	case xmlFile == "":
		m.state = statePickSchema
		m.files = listFiles(".xml")
	case binFile == "":
		m.state = statePickImage
		m.files = listFiles(".bin")
	default:
		m.state = stateSelectTable
	}
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	if m.xmlFile != "" && m.binFile != "" {
		return m.loadSession
	}
	return nil
}

func (m *interactiveModel) loadSession() tea.Msg {
	f, err := os.Open(m.xmlFile)
	if err != nil {
		return loadedMsg{err: err}
	}
	def, err := schema.Parse(f)
	f.Close()
	if err != nil {
		return loadedMsg{err: err}
	}

	img, err := tunefile.LoadImage(m.binFile)
	if err != nil {
		return loadedMsg{err: err}
	}

	session := tunefile.NewSession(def, img).WithLogger(m.logger)
	return loadedMsg{session: session, tables: def.Tables}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateEditTable {
				return m, tea.Quit
			}

		case "up", "k":
			if m.selected > 0 && m.selectable() {
				m.selected--
			}

		case "down", "j":
			if m.selected < m.selectableCount()-1 && m.selectable() {
				m.selected++
			}

		case "enter":
			return m.handleEnter()

		case "e":
			if m.state == stateViewTable {
				m.prepareEdit()
				if m.err == nil {
					m.state = stateEditTable
					return m, textinput.Blink
				}
			}

		case "w":
			if m.state == stateSelectTable && m.session != nil {
				out, err := m.session.Image().SaveModified()
				if err != nil {
					m.err = err
				} else {
					m.result = "Image saved to " + out
					m.err = nil
				}
				m.state = stateShowResult
			}

		case "tab":
			if m.state == stateEditTable && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateViewTable, stateShowResult:
				m.state = stateSelectTable
				m.result = ""
				m.err = nil
			case stateEditTable:
				m.state = stateViewTable
				m.inputs = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		m.tables = msg.tables
		m.selected = 0
		m.state = stateSelectTable

	case editResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.inputs = nil
		m.state = stateShowResult
	}

	if m.state == stateEditTable {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) handleEnter() (tea.Model, tea.Cmd) {
	switch m.state {
	case statePickSchema:
		if len(m.files) > 0 {
			m.xmlFile = m.files[m.selected]
			if m.binFile == "" {
				m.state = statePickImage
				m.files = listFiles(".bin")
				m.selected = 0
				return m, nil
			}
			return m, m.loadSession
		}

	case statePickImage:
		if len(m.files) > 0 {
			m.binFile = m.files[m.selected]
			m.selected = 0
			return m, m.loadSession
		}

	case stateSelectTable:
		if len(m.tables) > 0 {
			tbl := m.tables[m.selected]
			decoded, err := m.session.Decode(tbl.Name)
			if err != nil {
				m.err = err
				m.state = stateShowResult
				return m, nil
			}
			m.view = render.Table(tbl.Name, decoded, true)
			m.state = stateViewTable
		}

	case stateEditTable:
		return m, m.applyEdit

	case stateShowResult:
		m.state = stateSelectTable
		m.result = ""
		m.err = nil
	}
	return m, nil
}

// prepareEdit builds one text input per editable region, prefilled with the
// table's current raw values.
func (m *interactiveModel) prepareEdit() {
	tbl := m.tables[m.selected]
	raw, err := m.session.Raw(tbl.Name)
	if err != nil {
		m.err = err
		m.state = stateShowResult
		return
	}

	m.inputs = nil
	add := func(label string, values []float64) {
		ti := textinput.New()
		ti.Prompt = label + ": "
		ti.SetValue(joinFloats(values))
		ti.Width = 60
		m.inputs = append(m.inputs, ti)
	}

	if tbl.AddressX != nil {
		add("X Axis", raw.XAxis)
	}
	if tbl.AddressY != nil {
		add("Y Axis", raw.YAxis)
	}
	for i, row := range raw.Data {
		add(fmt.Sprintf("Row %d", i+1), row)
	}
	if len(m.inputs) == 0 {
		m.err = fmt.Errorf("table %q has nothing to edit", tbl.Name)
		m.state = stateShowResult
		return
	}
	m.inputs[0].Focus()
	m.focusIdx = 0
}

func (m *interactiveModel) applyEdit() tea.Msg {
	tbl := m.tables[m.selected]

	var edit codec.Edit
	idx := 0
	if tbl.AddressX != nil {
		values, err := parseFloats(m.inputs[idx].Value())
		if err != nil {
			return editResultMsg{err: err}
		}
		edit.XAxis = values
		idx++
	}
	if tbl.AddressY != nil {
		values, err := parseFloats(m.inputs[idx].Value())
		if err != nil {
			return editResultMsg{err: err}
		}
		edit.YAxis = values
		idx++
	}
	for ; idx < len(m.inputs); idx++ {
		row, err := parseFloats(m.inputs[idx].Value())
		if err != nil {
			return editResultMsg{err: err}
		}
		edit.Data = append(edit.Data, row)
	}

	if err := m.session.Apply(tbl.Name, edit); err != nil {
		return editResultMsg{err: err}
	}
	return editResultMsg{result: fmt.Sprintf("Table %q updated. Press w on the table list to save.", tbl.Name)}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tune File Editor"))
	if m.binFile != "" {
		b.WriteString(" ")
		b.WriteString(m.binFile)
	}
	b.WriteString("\n\n")

	switch m.state {
	case statePickSchema, statePickImage:
		kind := ".xml definition"
		if m.state == statePickImage {
			kind = ".bin image"
		}
		if len(m.files) == 0 {
			b.WriteString(errorStyle.Render(fmt.Sprintf("No %s files found in the current directory.", kind)))
			b.WriteString("\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			break
		}
		b.WriteString(fmt.Sprintf("Select a %s file:\n\n", kind))
		for i, f := range m.files {
			cursor := "  "
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + f))
			} else {
				b.WriteString(cursor + f)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateSelectTable:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			break
		}
		if m.session == nil {
			b.WriteString("Loading...")
			break
		}
		b.WriteString("Select a table:\n\n")
		for i, tbl := range m.tables {
			line := tableStyle.Render(tbl.Name) + " " +
				dimStyle.Render(fmt.Sprintf("%dx%d %s", tbl.ElementsX, tbl.ElementsY, tbl.Storage))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> ") + line)
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter view • w save image • q quit"))

	case stateViewTable:
		b.WriteString(m.view)
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("e edit • esc back • q quit"))

	case stateEditTable:
		tbl := m.tables[m.selected]
		b.WriteString(fmt.Sprintf("Editing %s (raw values)\n\n", tableStyle.Render(tbl.Name)))
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter apply • esc cancel"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) selectable() bool {
	return m.state == statePickSchema || m.state == statePickImage || m.state == stateSelectTable
}

func (m *interactiveModel) selectableCount() int {
	switch m.state {
	case statePickSchema, statePickImage:
		return len(m.files)
	case stateSelectTable:
		return len(m.tables)
	}
	return 0
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	}
	return strings.Join(parts, " ")
}

func runInteractive(xmlFile, binFile string, logger *zap.Logger) error {
	p := tea.NewProgram(newInteractiveModel(xmlFile, binFile, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/native-addin/addin"
	"github.com/wippyai/native-addin/variant"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	classStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD866"))

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Browse classes and call members from a terminal UI",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode requires a terminal")
		}
		lib, err := newLibrary()
		if err != nil {
			return err
		}
		p := tea.NewProgram(newInteractiveModel(lib), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

type entry struct {
	obj    addin.Object
	class  string
	member memberInfo
	// set is true for the write form of a property.
	set bool
}

func (e entry) label() string {
	if e.set {
		return "set " + e.member.name + ": " + tagStr(e.member.result)
	}
	return e.member.signature()
}

type modelState int

const (
	stateSelect modelState = iota
	stateInputArgs
	stateShowResult
)

type interactiveModel struct {
	err      error
	lib      *addin.Library
	result   string
	entries  []entry
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type callResultMsg struct {
	err    error
	result string
}

// newInteractiveModel creates one instance per class. Instances live for the
// whole session so state such as a started stopwatch carries across calls.
func newInteractiveModel(lib *addin.Library) *interactiveModel {
	m := &interactiveModel{lib: lib, state: stateSelect}
	for _, c := range lib.Classes() {
		obj, err := lib.Create(c.Name())
		if err != nil {
			m.err = err
			return m
		}
		for _, mi := range methods(obj) {
			m.entries = append(m.entries, entry{obj: obj, class: c.Name(), member: mi})
		}
		for _, pi := range props(obj) {
			if pi.read {
				m.entries = append(m.entries, entry{obj: obj, class: c.Name(), member: pi})
			}
			if pi.write {
				m.entries = append(m.entries, entry{obj: obj, class: c.Name(), member: pi, set: true})
			}
		}
	}
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelect && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelect && m.selected < len(m.entries)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelect:
				if len(m.entries) == 0 {
					return m, nil
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.invoke
				}
				m.state = stateInputArgs
				return m, nil

			case stateInputArgs:
				return m, m.invoke

			case stateShowResult:
				m.reset()
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			if m.state != stateSelect {
				m.reset()
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
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

func (m *interactiveModel) reset() {
	m.state = stateSelect
	m.inputs = nil
	m.result = ""
	m.err = nil
}

func (m *interactiveModel) prepareInputs() {
	e := m.entries[m.selected]
	var tags []variant.Tag
	switch {
	case e.set:
		tags = []variant.Tag{e.member.result}
	case !e.member.isProp:
		tags = e.member.params
	}

	m.inputs = make([]textinput.Model, len(tags))
	for i, tag := range tags {
		ti := textinput.New()
		ti.Placeholder = tagStr(tag)
		ti.Prompt = fmt.Sprintf("arg%d: ", i)
		if e.set {
			ti.Prompt = "value: "
		}
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) invoke() tea.Msg {
	e := m.entries[m.selected]
	conv := m.lib.Converter()

	args := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		args[i] = input.Value()
	}

	log.Debug("interactive call",
		zap.String("class", e.class),
		zap.String("member", e.member.name),
		zap.Int("args", len(args)))

	switch {
	case e.set:
		c, err := parseArg(args[0], e.member.result, conv)
		if err != nil {
			return callResultMsg{err: err}
		}
		if !e.obj.SetProp(e.member.index, &c) {
			return callResultMsg{err: callError(e.obj)}
		}
		return callResultMsg{result: "ok"}

	case e.member.isProp:
		c, err := readProp(e.obj, e.member.index)
		if err != nil {
			return callResultMsg{err: err}
		}
		return callResultMsg{result: formatCell(c, conv)}

	default:
		c, err := invoke(e.obj, e.member.index, args, conv)
		if err != nil {
			return callResultMsg{err: err}
		}
		if !e.member.hasRet {
			return callResultMsg{result: "ok"}
		}
		return callResultMsg{result: formatCell(c, conv)}
	}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state == stateSelect {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Native Add-in"))
	b.WriteString(" ")
	b.WriteString(m.lib.ClassNames())
	b.WriteString("\n\n")

	switch m.state {
	case stateSelect:
		b.WriteString("Select a member:\n")
		class := ""
		for i, e := range m.entries {
			if e.class != class {
				class = e.class
				b.WriteString("\n")
				b.WriteString(classStyle.Render(class))
				b.WriteString("\n")
			}
			line := e.label()
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + funcStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		e := m.entries[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s.%s\n\n", e.class, funcStyle.Render(e.member.name)))
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		e := m.entries[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s.%s:\n\n", e.class, funcStyle.Render(e.member.name)))
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

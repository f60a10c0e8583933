package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wasm-managed/codec"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type direction int

const (
	dirEncode direction = iota
	dirDecode
)

func (d direction) String() string {
	if d == dirDecode {
		return "decode"
	}
	return "encode"
}

const (
	fieldType = iota
	fieldValue
)

type interactiveModel struct {
	log      *zap.Logger
	err      error
	result   string
	inputs   []textinput.Model
	focusIdx int
	dir      direction
	top      bool
}

type resultMsg struct {
	err    error
	result string
}

func newInteractiveModel(log *zap.Logger) *interactiveModel {
	typeInput := textinput.New()
	typeInput.Prompt = "type:  "
	typeInput.Placeholder = "record{to: address, amount: biguint}"
	typeInput.Width = 60
	typeInput.Focus()

	valueInput := textinput.New()
	valueInput.Width = 60

	m := &interactiveModel{
		log:    log,
		inputs: []textinput.Model{typeInput, valueInput},
	}
	m.updatePrompts()
	return m
}

func (m *interactiveModel) updatePrompts() {
	v := &m.inputs[fieldValue]
	if m.dir == dirDecode {
		v.Prompt = "hex:   "
		v.Placeholder = "00000002012c"
	} else {
		v.Prompt = "value: "
		v.Placeholder = `{"to": "0x...", "amount": "300"}`
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "shift+tab":
			m.inputs[m.focusIdx].Blur()
			m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
			m.inputs[m.focusIdx].Focus()
			return m, nil

		case "ctrl+t":
			m.top = !m.top
			return m, nil

		case "ctrl+e":
			if m.dir == dirEncode {
				m.dir = dirDecode
			} else {
				m.dir = dirEncode
			}
			m.inputs[fieldValue].SetValue("")
			m.updatePrompts()
			m.result, m.err = "", nil
			return m, nil

		case "enter":
			return m, m.run
		}

	case resultMsg:
		m.result = msg.result
		m.err = msg.err
		return m, nil
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *interactiveModel) run() tea.Msg {
	t, err := codec.ParseType(m.inputs[fieldType].Value())
	if err != nil {
		return resultMsg{err: err}
	}
	value := m.inputs[fieldValue].Value()

	if m.dir == dirDecode {
		data, err := parseHex(strings.ReplaceAll(value, " ", ""))
		if err != nil {
			return resultMsg{err: err}
		}
		s, err := decodeValue(t, data, m.top)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{result: s}
	}

	v, err := readJSON(strings.NewReader(value))
	if err != nil {
		return resultMsg{err: err}
	}
	out, err := encodeValue(t, v, m.top)
	if err != nil {
		return resultMsg{err: err}
	}
	m.log.Debug("encoded", zap.String("type", codec.FormatType(t)), zap.Int("bytes", len(out)))
	return resultMsg{result: hex.EncodeToString(out)}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	form := "nested"
	if m.top {
		form = "top"
	}
	b.WriteString(titleStyle.Render("Managed Codec"))
	b.WriteString(" ")
	b.WriteString(typeStyle.Render(m.dir.String() + " / " + form))
	b.WriteString("\n\n")

	for _, input := range m.inputs {
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.result != "":
		b.WriteString(resultStyle.Render(m.result))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("tab next field • enter run • ctrl+e encode/decode • ctrl+t nested/top • esc quit"))

	return b.String()
}

func newInteractiveCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Encode and decode values in a terminal UI",
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("interactive mode needs a terminal")
			}
			p := tea.NewProgram(newInteractiveModel(g.log), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

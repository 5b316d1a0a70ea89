// Package tui asks for the run settings with ordered Bubble Tea prompts.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sgp4check/internal/config"
)

var ErrAborted = errors.New("tui: input aborted")

var (
	cyan  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

type field int

const (
	fieldOps field = iota
	fieldRun
	fieldInputTime
	fieldGravity
	fieldCatalog
	fieldStart
	fieldStop
	fieldStep
	numFields
)

type prompt struct {
	label string
	hint  string
}

var prompts = [numFields]prompt{
	fieldOps:       {"operations mode", "a afspc, i improved"},
	fieldRun:       {"run mode", "c catalog compare, v verification, m manual"},
	fieldInputTime: {"input time", "m minutes, e epoch, d day of year"},
	fieldGravity:   {"gravity constants", "721, 72, 84"},
	fieldCatalog:   {"catalog file", "two line element file"},
	fieldStart:     {"start", ""},
	fieldStop:      {"stop", ""},
	fieldStep:      {"step (min)", ""},
}

// Answers are the raw values entered. Empty answers keep the default.
type Answers struct {
	Tokens  config.Tokens
	Catalog string
	Manual  config.ManualConfig
}

type model struct {
	input   textinput.Model
	current field
	values  [numFields]string
	defs    [numFields]string
	done    bool
	aborted bool
}

func newModel(cfg *config.Config) model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	ti.Prompt = "> "
	ti.Focus()

	m := model{input: ti}
	m.defs = [numFields]string{
		fieldOps:       cfg.OpsMode,
		fieldRun:       cfg.RunMode,
		fieldInputTime: cfg.InputTime,
		fieldGravity:   cfg.Gravity,
		fieldCatalog:   cfg.Catalog,
		fieldStart:     cfg.Manual.Start,
		fieldStop:      cfg.Manual.Stop,
		fieldStep:      cfg.Manual.Step,
	}
	m.input.Placeholder = m.defs[fieldOps]
	return m
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			m.values[m.current] = strings.TrimSpace(m.input.Value())
			m.current = m.next(m.current)
			if m.current == numFields {
				m.done = true
				return m, tea.Quit
			}
			m.input.Reset()
			m.input.Placeholder = m.defs[m.current]
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// next skips the prompts that do not apply to the chosen run mode.
func (m model) next(f field) field {
	manual := strings.EqualFold(m.value(fieldRun), "m")
	for f++; f < numFields; f++ {
		switch f {
		case fieldInputTime, fieldStart, fieldStop, fieldStep:
			if !manual {
				continue
			}
		}
		return f
	}
	return f
}

// value is the answer for f, or its default when left blank.
func (m model) value(f field) string {
	if m.values[f] != "" {
		return m.values[f]
	}
	return m.defs[f]
}

func (m model) hint(f field) string {
	if f != fieldStart && f != fieldStop {
		return prompts[f].hint
	}
	switch strings.ToLower(m.value(fieldInputTime)) {
	case "e":
		return "YYYY MM DD hh mm ss.s"
	case "d":
		return "YYYY DDD.ddd"
	default:
		return "minutes from epoch"
	}
}

func (m model) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(cyan.Render("sgp4check") + dim.Render("  enter to accept, esc to quit") + "\n\n")

	for f := fieldOps; f < m.current; f = m.next(f) {
		fmt.Fprintf(&b, "  %s %s\n", dim.Render(prompts[f].label+":"), green.Render(m.value(f)))
	}

	fmt.Fprintf(&b, "\n  %s %s\n  %s\n", white.Render(prompts[m.current].label), dim.Render("("+m.hint(m.current)+")"), m.input.View())
	return b.String()
}

func (m model) answers() Answers {
	return Answers{
		Tokens: config.Tokens{
			Ops:       m.value(fieldOps),
			Run:       m.value(fieldRun),
			InputTime: m.value(fieldInputTime),
			Gravity:   m.value(fieldGravity),
		},
		Catalog: m.value(fieldCatalog),
		Manual: config.ManualConfig{
			Start: m.value(fieldStart),
			Stop:  m.value(fieldStop),
			Step:  m.value(fieldStep),
		},
	}
}

// Ask runs the prompts with cfg's values as defaults.
func Ask(cfg *config.Config, opts ...tea.ProgramOption) (Answers, error) {
	final, err := tea.NewProgram(newModel(cfg), opts...).Run()
	if err != nil {
		return Answers{}, err
	}
	m := final.(model)
	if m.aborted || !m.done {
		return Answers{}, ErrAborted
	}
	return m.answers(), nil
}

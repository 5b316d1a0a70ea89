package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/sgp4check/internal/config"
)

func typeLine(t *testing.T, m model, text string) model {
	t.Helper()
	if text != "" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
		m = next.(model)
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(model)
}

func TestPrompts_Verification(t *testing.T) {
	m := newModel(config.DefaultConfig())

	m = typeLine(t, m, "a")
	m = typeLine(t, m, "v")
	if m.current != fieldGravity {
		t.Fatalf("input time should be skipped outside manual mode, at %d", m.current)
	}
	m = typeLine(t, m, "84")
	m = typeLine(t, m, "SGP4-VER.TLE")

	if !m.done {
		t.Fatal("expected prompts to finish after the catalog")
	}
	got := m.answers()
	want := config.Tokens{Ops: "a", Run: "v", InputTime: config.DefaultInputTime, Gravity: "84"}
	if got.Tokens != want {
		t.Errorf("tokens = %+v, want %+v", got.Tokens, want)
	}
	if got.Catalog != "SGP4-VER.TLE" {
		t.Errorf("unexpected catalog %q", got.Catalog)
	}
}

func TestPrompts_ManualAsksForGrid(t *testing.T) {
	m := newModel(config.DefaultConfig())

	for _, line := range []string{"", "m", "d", "", "cat.tle", "2000 179.5", "2000 180.5"} {
		m = typeLine(t, m, line)
	}
	if m.current != fieldStep {
		t.Fatalf("expected step prompt, at %d", m.current)
	}
	if m.hint(fieldStart) != "YYYY DDD.ddd" {
		t.Errorf("unexpected hint %q", m.hint(fieldStart))
	}
	m = typeLine(t, m, "")

	got := m.answers()
	if got.Tokens.Ops != config.DefaultOps || got.Tokens.Gravity != config.DefaultGravity {
		t.Errorf("blank answers should keep defaults: %+v", got.Tokens)
	}
	if got.Tokens.InputTime != "d" {
		t.Errorf("unexpected input time %q", got.Tokens.InputTime)
	}
	if got.Manual.Start != "2000 179.5" || got.Manual.Stop != "2000 180.5" {
		t.Errorf("unexpected grid %+v", got.Manual)
	}
	if got.Manual.Step != config.DefaultConfig().Manual.Step {
		t.Errorf("blank step should keep default, got %q", got.Manual.Step)
	}
}

func TestPrompts_Abort(t *testing.T) {
	m := newModel(config.DefaultConfig())
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(model).aborted || cmd == nil {
		t.Error("esc should abort and quit")
	}
	if next.(model).View() != "" {
		t.Error("aborted view should be empty")
	}
}

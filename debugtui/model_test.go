package debugtui_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-lang/loomvm/builtin"
	"github.com/loom-lang/loomvm/bytecode"
	"github.com/loom-lang/loomvm/debugtui"
	"github.com/loom-lang/loomvm/engine"
	"github.com/loom-lang/loomvm/heap"
	"github.com/loom-lang/loomvm/value"
)

func newModel(t *testing.T, instrs ...bytecode.Instruction) *debugtui.Model {
	t.Helper()
	prog := &bytecode.Program{
		Name: "test",
		Main: "main",
		Functions: map[string]bytecode.Function{
			"main": {Name: "main", Instructions: instrs},
		},
	}
	vm := engine.New(prog, heap.New(), builtin.NewRegistry())
	m := debugtui.New(vm)
	require.Nil(t, m.Init())
	return m
}

func press(m *debugtui.Model, key string) *debugtui.Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return updated.(*debugtui.Model)
}

func TestSingleStepAdvancesOneInstructionAtATime(t *testing.T) {
	m := newModel(t,
		bytecode.Push(value.Int(1)),
		bytecode.Push(value.Int(2)),
		bytecode.Simple(bytecode.OP_ADD),
		bytecode.Simple(bytecode.OP_RETURN),
	)
	view := m.View()
	assert.Contains(t, view, "main @ ip=0")

	m = press(m, "s")
	assert.Contains(t, m.View(), "ip=1")

	m = press(m, "s")
	assert.Contains(t, m.View(), "ip=2")
}

func TestContinueRunsToCompletion(t *testing.T) {
	m := newModel(t,
		bytecode.Push(value.Int(3)),
		bytecode.Push(value.Int(4)),
		bytecode.Simple(bytecode.OP_ADD),
		bytecode.Simple(bytecode.OP_RETURN),
	)
	m = press(m, "c")
	assert.Contains(t, m.View(), "finished: 7")
}

func TestBreakpointPausesContinue(t *testing.T) {
	m := newModel(t,
		bytecode.Push(value.Int(1)),
		bytecode.Simple(bytecode.OP_BREAKPOINT),
		bytecode.Push(value.Int(2)),
		bytecode.Simple(bytecode.OP_RETURN),
	)
	m = press(m, "c")
	view := m.View()
	assert.Contains(t, view, "BREAKPOINT")
	assert.NotContains(t, view, "finished")
}

func TestQuitSendsQuitCommand(t *testing.T) {
	m := newModel(t, bytecode.Simple(bytecode.OP_RETURN))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(tea.QuitMsg)
	assert.True(t, ok)
}

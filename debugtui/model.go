// Package debugtui is an interactive bubbletea step-debugger over an
// engine.VM: single-step execution, inspect the operand stack and the
// active frame's locals, watch BREAKPOINT pauses and TRACE firings, and
// query heap statistics. It is additive tooling layered on the engine's
// public step API (§6 addendum) — the engine runs identically with or
// without it attached.
package debugtui

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/loom-lang/loomvm/engine"
	"github.com/loom-lang/loomvm/value"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	frameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	stackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	breakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD166")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// runState distinguishes the four phases a debugging session passes
// through, mirroring the select/input/result state machine a bubbletea
// model is customarily organized around.
type runState int

const (
	stateRunning runState = iota
	statePaused
	stateFinished
	stateFailed
)

// Model is the bubbletea model driving one debugging session. Construct
// with New and hand to tea.NewProgram.
type Model struct {
	vm       *engine.VM
	state    runState
	paused   bool
	lastBP   string
	result   value.Value
	err      error
	trace    viewport.Model
	traceLen int
}

// New builds a debugger model around vm, sizing the trace pane from the
// controlling terminal via golang.org/x/term when stdout is a real TTY
// (falling back to a fixed default otherwise — e.g. under a test harness
// or when output is redirected). The VM's Start is called lazily on the
// model's first Init, so a caller may still attach trace/breakpoint
// configuration beforehand.
func New(vm *engine.VM) *Model {
	width, height := 60, 8
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w - 4
			height = h / 3
			if width < 20 {
				width = 20
			}
			if height < 4 {
				height = 4
			}
		}
	}
	vp := viewport.New(width, height)
	m := &Model{vm: vm, trace: vp}
	vm.SetBreakpointHook(func(ip int, function string) {
		m.paused = true
		m.lastBP = fmt.Sprintf("%s:%d", function, ip)
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	if err := m.vm.Start(); err != nil {
		m.state = stateFailed
		m.err = err
		return nil
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width < 20 {
			width = 20
		}
		height := msg.Height / 3
		if height < 4 {
			height = 4
		}
		m.trace.Width = width
		m.trace.Height = height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "s", " ":
			if m.state == stateRunning || m.paused {
				m.step()
			}
		case "c":
			if m.state == stateRunning || m.state == statePaused {
				m.runToBreakOrEnd()
			}
		}
	}
	var cmd tea.Cmd
	m.trace, cmd = m.trace.Update(msg)
	return m, cmd
}

// step advances the VM by exactly one instruction via engine.VM.StepOnce.
func (m *Model) step() {
	m.paused = false
	running, result, err := m.vm.StepOnce(context.Background())
	if err != nil {
		m.state = stateFailed
		m.err = err
		return
	}
	if !running {
		m.state = stateFinished
		m.result = result
		return
	}
	if m.paused {
		m.state = statePaused
	} else {
		m.state = stateRunning
	}
	m.refreshTrace()
}

// runToBreakOrEnd steps repeatedly until a BREAKPOINT pauses the session,
// the program finishes, or it fails — the "continue" command.
func (m *Model) runToBreakOrEnd() {
	for {
		m.paused = false
		running, result, err := m.vm.StepOnce(context.Background())
		if err != nil {
			m.state = stateFailed
			m.err = err
			m.refreshTrace()
			return
		}
		if !running {
			m.state = stateFinished
			m.result = result
			m.refreshTrace()
			return
		}
		if m.paused {
			m.state = statePaused
			m.refreshTrace()
			return
		}
	}
}

func (m *Model) refreshTrace() {
	entries := m.vm.TraceLog()
	if len(entries) == m.traceLen {
		return
	}
	m.traceLen = len(entries)
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s:%d  top=%s\n", e.Function, e.IP, e.Top)
	}
	m.trace.SetContent(b.String())
	m.trace.GotoBottom()
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("loom step-debugger"))
	b.WriteString("\n\n")

	switch m.state {
	case stateFailed:
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	case stateFinished:
		b.WriteString(doneStyle.Render(fmt.Sprintf("finished: %s", m.result.Render())))
		b.WriteString("\n\n")
		b.WriteString(m.statsLine())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	name, ip, ok := m.vm.CurrentFrame()
	if ok {
		b.WriteString(frameStyle.Render(fmt.Sprintf("frame %s @ ip=%d", name, ip)))
		if m.state == statePaused {
			b.WriteString("  ")
			b.WriteString(breakStyle.Render("BREAKPOINT " + m.lastBP))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(stackStyle.Render("operand stack (top last)"))
	b.WriteString("\n")
	b.WriteString(renderStack(m.vm.OperandStack()))
	b.WriteString("\n\n")

	b.WriteString(stackStyle.Render("locals"))
	b.WriteString("\n")
	b.WriteString(renderLocals(m.vm.Locals()))
	b.WriteString("\n\n")

	b.WriteString(stackStyle.Render("trace"))
	b.WriteString("\n")
	b.WriteString(m.trace.View())
	b.WriteString("\n\n")

	b.WriteString(m.statsLine())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("s/space step • c continue to next breakpoint • q quit"))
	return b.String()
}

func (m *Model) statsLine() string {
	stats := m.vm.MemoryStats()
	return helpStyle.Render(fmt.Sprintf(
		"objects live=%d peak=%d  arrays live=%d peak=%d",
		stats.LiveObjects, stats.PeakObjects, stats.LiveArrays, stats.PeakArrays,
	))
}

func renderStack(vals []value.Value) string {
	if len(vals) == 0 {
		return "  <empty>"
	}
	var b strings.Builder
	for i, v := range vals {
		fmt.Fprintf(&b, "  [%d] %s\n", i, v.Render())
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderLocals(locals map[string]value.Value) string {
	if len(locals) == 0 {
		return "  <none>"
	}
	names := make([]string, 0, len(locals))
	for name := range locals {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  %s = %s\n", name, locals[name].Render())
	}
	return strings.TrimRight(b.String(), "\n")
}

// Run launches the debugger as a full-screen bubbletea program and blocks
// until the user quits.
func Run(vm *engine.VM) error {
	p := tea.NewProgram(New(vm), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/comproxy/office"
	"github.com/wippyai/comproxy/proxy"
	"github.com/wippyai/comproxy/sim"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	disposedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Strikethrough(true)

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const maxEvents = 8

// browser is a bubbletea model over a live proxy tree. All proxy calls happen
// inside Update and View, which bubbletea runs on one goroutine.
type browser struct {
	rt       *sim.Runtime
	app      *office.Application
	filename string
	status   string
	entries  []entry
	events   []string
	filter   textinput.Model
	selected int
}

func newBrowser(filename string, rt *sim.Runtime, app *office.Application) *browser {
	ti := textinput.New()
	ti.Placeholder = "type name"
	ti.Prompt = "/ "
	ti.Width = 30

	b := &browser{rt: rt, app: app, filename: filename, filter: ti}
	b.entries = walk(app, b.logEvent)
	return b
}

func (b *browser) logEvent(msg string) {
	b.events = append(b.events, msg)
	if len(b.events) > maxEvents {
		b.events = b.events[len(b.events)-maxEvents:]
	}
}

func (b *browser) Init() tea.Cmd {
	return nil
}

// visible returns the indexes of entries matching the filter.
func (b *browser) visible() []int {
	q := strings.ToLower(b.filter.Value())
	out := make([]int, 0, len(b.entries))
	for i, e := range b.entries {
		if q == "" || strings.Contains(strings.ToLower(e.line()), q) {
			out = append(out, i)
		}
	}
	return out
}

func (b *browser) current() (entry, bool) {
	vis := b.visible()
	if b.selected < 0 || b.selected >= len(vis) {
		return entry{}, false
	}
	return b.entries[vis[b.selected]], true
}

func (b *browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	if b.filter.Focused() {
		switch key.String() {
		case "enter", "esc":
			b.filter.Blur()
			if key.String() == "esc" {
				b.filter.SetValue("")
			}
			b.selected = 0
			return b, nil
		}
		var cmd tea.Cmd
		b.filter, cmd = b.filter.Update(msg)
		b.selected = 0
		return b, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return b, tea.Quit

	case "up", "k":
		if b.selected > 0 {
			b.selected--
		}

	case "down", "j":
		if b.selected < len(b.visible())-1 {
			b.selected++
		}

	case "/":
		b.filter.Focus()
		return b, textinput.Blink

	case "a", "x":
		e, ok := b.current()
		if !ok {
			break
		}
		id := office.EventActivate
		if key.String() == "x" {
			id = office.EventDeactivate
		}
		if e.obj.Disposed() {
			b.status = "proxy is disposed"
			break
		}
		n := b.rt.Fire(e.obj.Handle(), id)
		b.status = fmt.Sprintf("fired %s on %s (%d sinks)", office.EventName(id), e.obj.TypeName(), n)

	case "d":
		if e, ok := b.current(); ok {
			e.obj.Dispose()
			b.status = fmt.Sprintf("disposed %s, %d references outstanding", e.obj.TypeName(), b.rt.Outstanding())
		}

	case "r":
		b.entries = walk(b.app, b.logEvent)
		b.selected = 0
		b.status = fmt.Sprintf("reloaded, %d references outstanding", b.rt.Outstanding())
	}
	return b, nil
}

func (b *browser) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Office Proxy Browser"))
	sb.WriteString(" ")
	sb.WriteString(b.filename)
	sb.WriteString("\n\n")

	if b.filter.Focused() || b.filter.Value() != "" {
		sb.WriteString(b.filter.View())
		sb.WriteString("\n\n")
	}

	vis := b.visible()
	for i, idx := range vis {
		e := b.entries[idx]
		line := e.line()
		switch {
		case i == b.selected:
			sb.WriteString(selectedStyle.Render("> " + line))
		case e.obj.Disposed():
			sb.WriteString(disposedStyle.Render("  " + line))
		default:
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	if e, ok := b.current(); ok && e.fields != nil {
		sb.WriteString("\n")
		for _, f := range e.fields() {
			sb.WriteString(typeStyle.Render(f.name))
			sb.WriteString(": ")
			sb.WriteString(f.value)
			sb.WriteString("\n")
		}
	}

	if len(b.events) > 0 {
		sb.WriteString("\n")
		for _, ev := range b.events {
			sb.WriteString(eventStyle.Render("event: " + ev))
			sb.WriteString("\n")
		}
	}

	if b.status != "" {
		sb.WriteString("\n")
		sb.WriteString(b.status)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("↑/↓ select • / filter • a activate • x deactivate • d dispose • r reload • q quit"))
	return sb.String()
}

func runInteractive(filename string, log *zap.Logger) error {
	rt, err := sim.LoadScenarioFile(filename)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	s := proxy.NewSession(rt, proxy.WithLogger(log))
	app, err := office.NewApplication(s, rt.Root())
	if err != nil {
		return fmt.Errorf("open application: %w", err)
	}

	p := tea.NewProgram(newBrowser(filename, rt, app), tea.WithAltScreen())
	_, err = p.Run()
	app.Dispose()
	if report(os.Stdout, rt, true) {
		return errLeaked
	}
	return err
}

package main

import (
	"bytes"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wippyai/comproxy/office"
	"github.com/wippyai/comproxy/proxy"
	"github.com/wippyai/comproxy/sim"
)

const scenario = "../../office/testdata/workbook.yaml"

func TestRun_Dump(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, options{scenario: scenario}, zap.NewNop())
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Application#1 Microsoft Excel Version=16.0")
	assert.Contains(t, s, "Workbook#")
	assert.Contains(t, s, "Budget.xlsx")
	assert.Contains(t, s, "Worksheet#")
	assert.Contains(t, s, "Visibility=hidden")
	assert.Contains(t, s, "ChartType=pie")
	assert.Contains(t, s, "TickMarks=outside")
	assert.Contains(t, s, "all native references released")
}

func TestRun_Fire(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, options{scenario: scenario, fire: "Chart:Activate"}, zap.NewNop())
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "event: Chart 1 activated")
	assert.Contains(t, s, "event: Summary activated")
	assert.Contains(t, s, "(1 sinks)")
	assert.Contains(t, s, "all native references released")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts options
	}{
		{"missing scenario", options{scenario: "testdata/missing.yaml"}},
		{"malformed fire", options{scenario: scenario, fire: "Chart"}},
		{"unknown event", options{scenario: scenario, fire: "Chart:Explode"}},
		{"no targets", options{scenario: scenario, fire: "Pivot:Activate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, run(&out, tt.opts, zap.NewNop()))
		})
	}
}

func TestReport_Leak(t *testing.T) {
	rt, err := sim.LoadScenarioFile(scenario)
	require.NoError(t, err)
	app, err := office.NewApplication(proxy.NewSession(rt), rt.Root())
	require.NoError(t, err)
	walk(app, nil)

	var out bytes.Buffer
	assert.True(t, report(&out, rt, false))
	assert.Contains(t, out.String(), "Application#1 refs=1")

	app.Dispose()
	out.Reset()
	assert.False(t, report(&out, rt, false))
}

func TestBrowser(t *testing.T) {
	rt, err := sim.LoadScenarioFile(scenario)
	require.NoError(t, err)
	app, err := office.NewApplication(proxy.NewSession(rt), rt.Root())
	require.NoError(t, err)
	b := newBrowser("workbook.yaml", rt, app)
	require.NotEmpty(t, b.entries)
	assert.Contains(t, b.View(), "Office Proxy Browser")

	// Select the chart sheet and activate it.
	for i, idx := range b.visible() {
		if b.entries[idx].obj.TypeName() == "Chart" && b.entries[idx].label == "Summary" {
			b.selected = i
		}
	}
	b.Update(keyMsg("a"))
	assert.Contains(t, b.status, "fired Activate on Chart (1 sinks)")
	assert.Contains(t, b.events, "Summary activated")

	b.selected = 0
	b.Update(keyMsg("d"))
	assert.True(t, app.Disposed())
	assert.Zero(t, rt.Outstanding())
	assert.Contains(t, b.View(), "(disposed)")
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/office"
	"github.com/wippyai/comproxy/proxy"
)

// view is what the tree needs from any proxy.
type view interface {
	proxy.Disposer
	TypeName() string
	Handle() comproxy.Handle
}

type field struct {
	name  string
	value string
}

// entry is one proxy in the flattened object tree.
type entry struct {
	obj    view
	fields func() []field
	label  string
	depth  int
}

func (e entry) line() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", e.depth))
	b.WriteString(e.obj.TypeName())
	if e.obj.Disposed() {
		b.WriteString(" (disposed)")
	} else {
		fmt.Fprintf(&b, "#%d", e.obj.Handle())
	}
	if e.label != "" {
		b.WriteString(" ")
		b.WriteString(e.label)
	}
	return b.String()
}

// walk visits the model below app. Every proxy it creates is owned by app.
// notify, when set, receives a line for each chart and workbook event.
func walk(app *office.Application, notify func(string)) []entry {
	var out []entry
	add := func(depth int, obj view, label string, fields func() []field) {
		out = append(out, entry{obj: obj, label: label, depth: depth, fields: fields})
	}

	add(0, app, app.Name(), func() []field {
		return []field{
			{"Version", app.Version()},
			{"Visible", fmt.Sprint(app.Visible())},
			{"Calculation", app.Calculation().String()},
		}
	})

	books := app.Workbooks()
	if books == nil {
		return out
	}
	for _, wb := range books.All() {
		if notify != nil {
			wb.Activated.Add(func(w *office.Workbook) { notify(w.Name() + " activated") })
			wb.BeforeClose.Add(func(*office.CloseRequest) { notify(wb.Name() + " closing") })
		}
		add(1, wb, wb.Name(), func() []field {
			return []field{
				{"FullName", wb.FullName()},
				{"Saved", fmt.Sprint(wb.Saved())},
			}
		})
		if windows := wb.Windows(); windows != nil {
			for _, win := range windows.All() {
				add(2, win, win.Caption(), func() []field {
					return []field{{"State", win.State().String()}}
				})
			}
		}
		if sheets := wb.Worksheets(); sheets != nil {
			for _, ws := range sheets.All() {
				add(2, ws, ws.Name(), func() []field {
					return []field{
						{"Index", fmt.Sprint(ws.Index())},
						{"Visibility", ws.Visibility().String()},
					}
				})
				frames := ws.ChartObjects()
				if frames == nil {
					continue
				}
				for _, frame := range frames.All() {
					add(3, frame, frame.Name(), nil)
					if chart := frame.Chart(); chart != nil {
						out = appendChart(out, 4, chart, notify)
					}
				}
			}
		}
		if charts := wb.Charts(); charts != nil {
			for _, chart := range charts.All() {
				out = appendChart(out, 2, chart, notify)
			}
		}
	}
	return out
}

func appendChart(out []entry, depth int, chart *office.Chart, notify func(string)) []entry {
	if notify != nil {
		chart.Activated.Add(func(c *office.Chart) { notify(c.Name() + " activated") })
		chart.Deactivated.Add(func(c *office.Chart) { notify(c.Name() + " deactivated") })
	}
	out = append(out, entry{obj: chart, label: chart.Name(), depth: depth, fields: func() []field {
		return []field{
			{"Title", chart.Title()},
			{"ChartType", chart.ChartType().String()},
		}
	}})
	for _, kind := range []office.AxisType{office.AxisCategory, office.AxisValue} {
		ax := chart.Axis(kind)
		if ax == nil {
			continue
		}
		out = append(out, entry{obj: ax, label: kind.String(), depth: depth + 1, fields: func() []field {
			return []field{
				{"TickMarks", ax.TickMarks().String()},
				{"MinimumScale", fmt.Sprint(ax.MinimumScale())},
				{"Title", ax.Title()},
			}
		}})
	}
	return out
}

func dump(w io.Writer, entries []entry) {
	for _, e := range entries {
		fmt.Fprint(w, e.line())
		if e.fields != nil {
			for _, f := range e.fields() {
				if f.value == "" {
					continue
				}
				fmt.Fprintf(w, " %s=%s", f.name, f.value)
			}
		}
		fmt.Fprintln(w)
	}
}

// targets returns the distinct live handles of the given native type.
func targets(entries []entry, typeName string) []comproxy.Handle {
	seen := make(map[comproxy.Handle]bool)
	var out []comproxy.Handle
	for _, e := range entries {
		h := e.obj.Handle()
		if h == 0 || e.obj.TypeName() != typeName || seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}

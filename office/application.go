package office

import (
	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/event"
	"github.com/wippyai/comproxy/proxy"
)

// Application is the root of the object model.
type Application struct {
	*proxy.Object
	workbooks *Workbooks

	// WorkbookOpened fires when a workbook is opened. The listener owns
	// the workbook proxy.
	WorkbookOpened event.Event[*Workbook]

	// WindowActivated fires when a workbook window gains focus. The
	// listener owns both proxies.
	WindowActivated event.Event[WindowActivation]
}

// NewApplication wraps h, taking ownership of the reference.
func NewApplication(s *proxy.Session, h comproxy.Handle) (*Application, error) {
	o, err := proxy.New(s, h, "Application")
	if err != nil {
		return nil, err
	}
	a := &Application{Object: o}
	subscribe(o, a, EventWorkbookOpen, (*Application).onWorkbookOpen)
	subscribe(o, a, EventWindowActivate, (*Application).onWindowActivate)
	o.OnDispose(a.WorkbookOpened.Clear)
	o.OnDispose(a.WindowActivated.Clear)
	return a, nil
}

func (a *Application) onWorkbookOpen(args []comproxy.Value) {
	if a.WorkbookOpened.Len() == 0 {
		return
	}
	wb, ok := proxy.WrapArg(a.Session(), argAt(args, 0), NewWorkbook)
	if !ok {
		return
	}
	a.WorkbookOpened.Emit(wb)
}

func (a *Application) onWindowActivate(args []comproxy.Value) {
	if a.WindowActivated.Len() == 0 {
		return
	}
	var ev WindowActivation
	ev.Workbook, _ = proxy.WrapArg(a.Session(), argAt(args, 0), NewWorkbook)
	ev.Window, _ = proxy.WrapArg(a.Session(), argAt(args, 1), NewWindow)
	a.WindowActivated.Emit(ev)
}

// Name returns the application name.
func (a *Application) Name() string {
	return proxy.Get(a.Object, "Name", "")
}

// Version returns the application version string.
func (a *Application) Version() string {
	return proxy.Get(a.Object, "Version", "")
}

// Visible reports whether the application window is shown.
func (a *Application) Visible() bool {
	return proxy.Get(a.Object, "Visible", false)
}

// SetVisible shows or hides the application window.
func (a *Application) SetVisible(v bool) {
	proxy.Set(a.Object, "Visible", v)
}

// Calculation returns the recalculation mode.
func (a *Application) Calculation() Calculation {
	return proxy.GetEnum(a.Object, "Calculation", calculations)
}

// SetCalculation changes the recalculation mode.
func (a *Application) SetCalculation(c Calculation) {
	proxy.SetEnum(a.Object, "Calculation", calculations, c)
}

// Calculate recalculates every open workbook.
func (a *Application) Calculate() error {
	return proxy.Call(a.Object, "Calculate")
}

// Workbooks returns the open workbooks.
func (a *Application) Workbooks() *Workbooks {
	return proxy.Child(a.Object, &a.workbooks, "Workbooks", NewWorkbooks)
}

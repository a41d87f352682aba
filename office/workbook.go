package office

import (
	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/event"
	"github.com/wippyai/comproxy/proxy"
)

// Workbooks is the collection of open workbooks.
type Workbooks struct {
	collection[*Workbook]
}

// NewWorkbooks wraps h, taking ownership of the reference.
func NewWorkbooks(s *proxy.Session, h comproxy.Handle) (*Workbooks, error) {
	o, err := proxy.New(s, h, "Workbooks")
	if err != nil {
		return nil, err
	}
	return &Workbooks{collection[*Workbook]{Object: o, ctor: NewWorkbook}}, nil
}

// Add creates a new workbook registered with the collection.
func (w *Workbooks) Add() (*Workbook, error) {
	return proxy.Fetch(w.Object, "Add", NewWorkbook)
}

// Workbook is one open workbook.
type Workbook struct {
	*proxy.Object
	worksheets *Worksheets
	charts     *Charts
	windows    *Windows

	// Activated fires when the workbook gains focus.
	Activated event.Event[*Workbook]

	// BeforeClose fires before the workbook closes. Listeners may set
	// Cancel on the request to keep it open.
	BeforeClose event.Event[*CloseRequest]
}

// NewWorkbook wraps h, taking ownership of the reference.
func NewWorkbook(s *proxy.Session, h comproxy.Handle) (*Workbook, error) {
	o, err := proxy.New(s, h, "Workbook")
	if err != nil {
		return nil, err
	}
	w := &Workbook{Object: o}
	subscribe(o, w, EventActivate, (*Workbook).onActivate)
	subscribe(o, w, EventBeforeClose, (*Workbook).onBeforeClose)
	o.OnDispose(w.Activated.Clear)
	o.OnDispose(w.BeforeClose.Clear)
	return w, nil
}

func (w *Workbook) onActivate(_ []comproxy.Value) {
	w.Activated.Emit(w)
}

// onBeforeClose forwards the by-reference Cancel flag: the native side passes
// a *bool that receives the listeners' decision.
func (w *Workbook) onBeforeClose(args []comproxy.Value) {
	req := &CloseRequest{}
	cancel, byRef := argAt(args, 0).(*bool)
	if byRef && cancel != nil {
		req.Cancel = *cancel
	}
	w.BeforeClose.Emit(req)
	if byRef && cancel != nil {
		*cancel = req.Cancel
	}
}

func (*Workbook) isContainer() {}

// Name returns the file name.
func (w *Workbook) Name() string {
	return proxy.Get(w.Object, "Name", "")
}

// FullName returns the full path.
func (w *Workbook) FullName() string {
	return proxy.Get(w.Object, "FullName", "")
}

// Saved reports whether the workbook has no unsaved changes.
func (w *Workbook) Saved() bool {
	return proxy.Get(w.Object, "Saved", false)
}

// Worksheets returns the workbook's worksheets.
func (w *Workbook) Worksheets() *Worksheets {
	return proxy.Child(w.Object, &w.worksheets, "Worksheets", NewWorksheets)
}

// Charts returns the workbook's chart sheets.
func (w *Workbook) Charts() *Charts {
	return proxy.Child(w.Object, &w.charts, "Charts", NewCharts)
}

// Windows returns the windows showing the workbook.
func (w *Workbook) Windows() *Windows {
	return proxy.Child(w.Object, &w.windows, "Windows", NewWindows)
}

// Application wraps the owning application anew on every call. The caller
// owns the result and must dispose it; it is nil when the workbook is no
// longer alive.
func (w *Workbook) Application() *Application {
	h, _, ok := w.Lookup("Application")
	if !ok {
		return nil
	}
	app, err := NewApplication(w.Session(), h)
	if err != nil {
		w.Session().Release(h)
		return nil
	}
	return app
}

// Activate brings the workbook to the front.
func (w *Workbook) Activate() error {
	return proxy.Call(w.Object, "Activate")
}

// Save writes the workbook to disk.
func (w *Workbook) Save() error {
	return proxy.Call(w.Object, "Save")
}

// CloseWorkbook closes the workbook in the application and then disposes the
// proxy. Close, by contrast, only disposes the proxy.
func (w *Workbook) CloseWorkbook(saveChanges bool) error {
	if err := proxy.Call(w.Object, "Close", saveChanges); err != nil {
		return err
	}
	w.Dispose()
	return nil
}

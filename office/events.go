package office

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/proxy"
)

// Native event identifiers.
const (
	EventActivate       comproxy.EventID = 0x130
	EventDeactivate     comproxy.EventID = 0x5fa
	EventBeforeClose    comproxy.EventID = 0x60a
	EventWindowActivate comproxy.EventID = 0x614
	EventWorkbookOpen   comproxy.EventID = 0x61f
)

// EventName returns the native name of id.
func EventName(id comproxy.EventID) string {
	switch id {
	case EventActivate:
		return "Activate"
	case EventDeactivate:
		return "Deactivate"
	case EventBeforeClose:
		return "BeforeClose"
	case EventWindowActivate:
		return "WindowActivate"
	case EventWorkbookOpen:
		return "WorkbookOpen"
	default:
		return fmt.Sprintf("event(0x%x)", uint32(id))
	}
}

// EventByName returns the identifier of the native event called name.
func EventByName(name string) (comproxy.EventID, bool) {
	for _, id := range []comproxy.EventID{
		EventActivate, EventDeactivate, EventBeforeClose, EventWindowActivate, EventWorkbookOpen,
	} {
		if EventName(id) == name {
			return id, true
		}
	}
	return 0, false
}

// WindowActivation is the argument of Application.WindowActivated. Both
// proxies belong to the listener.
type WindowActivation struct {
	Workbook *Workbook
	Window   *Window
}

// Dispose releases both proxies.
func (a WindowActivation) Dispose() {
	if a.Workbook != nil {
		a.Workbook.Dispose()
	}
	if a.Window != nil {
		a.Window.Dispose()
	}
}

// CloseRequest is the argument of Workbook.BeforeClose. Setting Cancel keeps
// the workbook open.
type CloseRequest struct {
	Cancel bool
}

// subscribe wires one native event of o to handler. A proxy without a native
// event source is left unwired; a wiring failure is logged and the proxy
// stays usable.
func subscribe[T any](o *proxy.Object, owner *T, id comproxy.EventID, handler func(*T, []comproxy.Value)) {
	b, ok := o.Events()
	if !ok {
		return
	}
	if err := proxy.On(b, owner, id, handler); err != nil {
		o.Session().Logger().Warn("event wiring failed",
			zap.String("type", o.TypeName()),
			zap.String("event", EventName(id)),
			zap.Error(err))
	}
}

// argAt returns args[i], or nil when the native side passed fewer arguments.
func argAt(args []comproxy.Value, i int) comproxy.Value {
	if i < len(args) {
		return args[i]
	}
	return nil
}

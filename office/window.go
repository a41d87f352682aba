package office

import (
	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/proxy"
)

// Windows is the collection of a workbook's windows.
type Windows struct {
	collection[*Window]
}

// NewWindows wraps h, taking ownership of the reference.
func NewWindows(s *proxy.Session, h comproxy.Handle) (*Windows, error) {
	o, err := proxy.New(s, h, "Windows")
	if err != nil {
		return nil, err
	}
	return &Windows{collection[*Window]{Object: o, ctor: NewWindow}}, nil
}

// Window is a workbook window.
type Window struct {
	*proxy.Object
}

// NewWindow wraps h, taking ownership of the reference.
func NewWindow(s *proxy.Session, h comproxy.Handle) (*Window, error) {
	o, err := proxy.New(s, h, "Window")
	if err != nil {
		return nil, err
	}
	return &Window{Object: o}, nil
}

func (w *Window) Caption() string {
	return proxy.Get(w.Object, "Caption", "")
}

func (w *Window) State() WindowState {
	return proxy.GetEnum(w.Object, "WindowState", windowStates)
}

func (w *Window) SetState(s WindowState) {
	proxy.SetEnum(w.Object, "WindowState", windowStates, s)
}

func (w *Window) Activate() error {
	return proxy.Call(w.Object, "Activate")
}

package office

import (
	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/proxy"
)

// Range is a block of cells.
type Range struct {
	*proxy.Object
}

// NewRange wraps h, taking ownership of the reference.
func NewRange(s *proxy.Session, h comproxy.Handle) (*Range, error) {
	o, err := proxy.New(s, h, "Range")
	if err != nil {
		return nil, err
	}
	return &Range{Object: o}, nil
}

// Address returns the absolute A1-style address.
func (r *Range) Address() string {
	return proxy.Get(r.Object, "Address", "")
}

// Text returns the formatted display text.
func (r *Range) Text() string {
	return proxy.Get(r.Object, "Text", "")
}

// Value returns the raw cell value, or nil once disposed.
func (r *Range) Value() comproxy.Value {
	return proxy.Get[comproxy.Value](r.Object, "Value", nil)
}

// SetValue writes v to every cell of the range.
func (r *Range) SetValue(v comproxy.Value) {
	proxy.Set(r.Object, "Value", v)
}

func (r *Range) Row() int {
	return proxy.Get(r.Object, "Row", 0)
}

func (r *Range) Column() int {
	return proxy.Get(r.Object, "Column", 0)
}

func (r *Range) HorizontalAlignment() HorizontalAlignment {
	return proxy.GetEnum(r.Object, "HorizontalAlignment", alignments)
}

func (r *Range) SetHorizontalAlignment(a HorizontalAlignment) {
	proxy.SetEnum(r.Object, "HorizontalAlignment", alignments, a)
}

// Calculate recalculates the range.
func (r *Range) Calculate() error {
	return proxy.Call(r.Object, "Calculate")
}

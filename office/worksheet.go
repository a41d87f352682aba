package office

import (
	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/proxy"
)

// Worksheets is the collection of a workbook's worksheets.
type Worksheets struct {
	collection[*Worksheet]
}

// NewWorksheets wraps h, taking ownership of the reference.
func NewWorksheets(s *proxy.Session, h comproxy.Handle) (*Worksheets, error) {
	o, err := proxy.New(s, h, "Worksheets")
	if err != nil {
		return nil, err
	}
	return &Worksheets{collection[*Worksheet]{Object: o, ctor: NewWorksheet}}, nil
}

// Add appends a worksheet registered with the collection.
func (w *Worksheets) Add() (*Worksheet, error) {
	return proxy.Fetch(w.Object, "Add", NewWorksheet)
}

// Worksheet is one sheet of cells.
type Worksheet struct {
	*proxy.Object
	chartObjects *ChartObjects
}

// NewWorksheet wraps h, taking ownership of the reference.
func NewWorksheet(s *proxy.Session, h comproxy.Handle) (*Worksheet, error) {
	o, err := proxy.New(s, h, "Worksheet")
	if err != nil {
		return nil, err
	}
	return &Worksheet{Object: o}, nil
}

func (*Worksheet) isContainer() {}

func (w *Worksheet) Name() string {
	return proxy.Get(w.Object, "Name", "")
}

func (w *Worksheet) SetName(name string) {
	proxy.Set(w.Object, "Name", name)
}

// Index returns the 1-based tab position, or 0 once disposed.
func (w *Worksheet) Index() int {
	return proxy.Get(w.Object, "Index", 0)
}

func (w *Worksheet) Visibility() SheetVisibility {
	return proxy.GetEnum(w.Object, "Visible", sheetVisibilities)
}

func (w *Worksheet) SetVisibility(v SheetVisibility) {
	proxy.SetEnum(w.Object, "Visible", sheetVisibilities, v)
}

// Range returns the cells at addr, such as "A1" or "B2:C4". Each call yields
// a new proxy registered with the worksheet.
func (w *Worksheet) Range(addr string) (*Range, error) {
	return proxy.Fetch(w.Object, "Range", NewRange, addr)
}

// ChartObjects returns the charts embedded in the sheet.
func (w *Worksheet) ChartObjects() *ChartObjects {
	return proxy.Child(w.Object, &w.chartObjects, "ChartObjects", NewChartObjects)
}

func (w *Worksheet) Activate() error {
	return proxy.Call(w.Object, "Activate")
}

package office

import (
	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/errors"
	"github.com/wippyai/comproxy/event"
	"github.com/wippyai/comproxy/proxy"
)

// Container is the object a chart lives in: a *Worksheet, a *Workbook (for
// chart sheets) or a *ChartObject (for embedded charts).
type Container interface {
	proxy.Disposer
	TypeName() string
	isContainer()
}

// Charts is the collection of a workbook's chart sheets.
type Charts struct {
	collection[*Chart]
}

// NewCharts wraps h, taking ownership of the reference.
func NewCharts(s *proxy.Session, h comproxy.Handle) (*Charts, error) {
	o, err := proxy.New(s, h, "Charts")
	if err != nil {
		return nil, err
	}
	return &Charts{collection[*Chart]{Object: o, ctor: NewChart}}, nil
}

// Add creates a chart sheet registered with the collection.
func (c *Charts) Add() (*Chart, error) {
	return proxy.Fetch(c.Object, "Add", NewChart)
}

// Chart is a chart sheet or the chart inside a ChartObject.
type Chart struct {
	*proxy.Object
	axes map[AxisType]*Axis

	// Activated fires when the chart gains focus.
	Activated event.Event[*Chart]

	// Deactivated fires when the chart loses focus.
	Deactivated event.Event[*Chart]
}

// NewChart wraps h, taking ownership of the reference.
func NewChart(s *proxy.Session, h comproxy.Handle) (*Chart, error) {
	o, err := proxy.New(s, h, "Chart")
	if err != nil {
		return nil, err
	}
	c := &Chart{Object: o}
	subscribe(o, c, EventActivate, (*Chart).onActivate)
	subscribe(o, c, EventDeactivate, (*Chart).onDeactivate)
	o.OnDispose(c.Activated.Clear)
	o.OnDispose(c.Deactivated.Clear)
	return c, nil
}

func (c *Chart) onActivate(_ []comproxy.Value) {
	c.Activated.Emit(c)
}

func (c *Chart) onDeactivate(_ []comproxy.Value) {
	c.Deactivated.Emit(c)
}

func (c *Chart) Name() string {
	return proxy.Get(c.Object, "Name", "")
}

func (c *Chart) HasTitle() bool {
	return proxy.Get(c.Object, "HasTitle", false)
}

// Title returns the chart title text.
func (c *Chart) Title() string {
	return proxy.Get(c.Object, "ChartTitle", "")
}

// SetTitle sets the title text and turns the title on.
func (c *Chart) SetTitle(title string) {
	proxy.Set(c.Object, "HasTitle", true)
	proxy.Set(c.Object, "ChartTitle", title)
}

func (c *Chart) ChartType() ChartType {
	return proxy.GetEnum(c.Object, "ChartType", chartTypes)
}

func (c *Chart) SetChartType(t ChartType) {
	proxy.SetEnum(c.Object, "ChartType", chartTypes, t)
}

// Axis returns the axis of the given kind. The proxy is created once per kind
// and registered with the chart; it is nil if the chart has no such axis.
func (c *Chart) Axis(kind AxisType) *Axis {
	if ax := c.axes[kind]; ax != nil && (!ax.Disposed() || !c.Alive()) {
		return ax
	}
	ax, err := proxy.Fetch(c.Object, "Axes", NewAxis, axisTypes.Native(kind))
	if err != nil || ax == nil {
		return nil
	}
	if c.axes == nil {
		c.axes = make(map[AxisType]*Axis)
	}
	c.axes[kind] = ax
	return ax
}

// Parent resolves the chart's container. The caller owns the result and must
// dispose it.
func (c *Chart) Parent() (Container, error) {
	h, typeName, ok := c.Lookup("Parent")
	if !ok {
		return nil, errors.NotFound(errors.PhaseAccess, "parent", c.TypeName())
	}
	var (
		p   Container
		err error
	)
	switch typeName {
	case "Worksheet":
		p, err = NewWorksheet(c.Session(), h)
	case "Workbook":
		p, err = NewWorkbook(c.Session(), h)
	case "ChartObject":
		p, err = NewChartObject(c.Session(), h)
	default:
		err = errors.Unsupported(errors.PhaseAccess, "chart container "+typeName)
	}
	if err != nil {
		c.Session().Release(h)
		return nil, err
	}
	return p, nil
}

func (c *Chart) Activate() error {
	return proxy.Call(c.Object, "Activate")
}

// ChartObjects is the collection of charts embedded in a worksheet.
type ChartObjects struct {
	collection[*ChartObject]
}

// NewChartObjects wraps h, taking ownership of the reference.
func NewChartObjects(s *proxy.Session, h comproxy.Handle) (*ChartObjects, error) {
	o, err := proxy.New(s, h, "ChartObjects")
	if err != nil {
		return nil, err
	}
	return &ChartObjects{collection[*ChartObject]{Object: o, ctor: NewChartObject}}, nil
}

// ChartObject is the floating frame around an embedded chart.
type ChartObject struct {
	*proxy.Object
	chart *Chart
}

// NewChartObject wraps h, taking ownership of the reference.
func NewChartObject(s *proxy.Session, h comproxy.Handle) (*ChartObject, error) {
	o, err := proxy.New(s, h, "ChartObject")
	if err != nil {
		return nil, err
	}
	return &ChartObject{Object: o}, nil
}

func (*ChartObject) isContainer() {}

func (c *ChartObject) Name() string {
	return proxy.Get(c.Object, "Name", "")
}

// Chart returns the embedded chart.
func (c *ChartObject) Chart() *Chart {
	return proxy.Child(c.Object, &c.chart, "Chart", NewChart)
}

// Axis is one axis of a chart. Axes have no native events.
type Axis struct {
	*proxy.Object
}

// NewAxis wraps h, taking ownership of the reference.
func NewAxis(s *proxy.Session, h comproxy.Handle) (*Axis, error) {
	o, err := proxy.New(s, h, "Axis")
	if err != nil {
		return nil, err
	}
	return &Axis{Object: o}, nil
}

func (a *Axis) Type() AxisType {
	return proxy.GetEnum(a.Object, "Type", axisTypes)
}

// TickMarks returns the placement of the major tick marks.
func (a *Axis) TickMarks() TickMark {
	return proxy.GetEnum(a.Object, "MajorTickMark", tickMarks)
}

func (a *Axis) SetTickMarks(m TickMark) {
	proxy.SetEnum(a.Object, "MajorTickMark", tickMarks, m)
}

func (a *Axis) MinimumScale() float64 {
	return proxy.Get(a.Object, "MinimumScale", 0.0)
}

func (a *Axis) HasTitle() bool {
	return proxy.Get(a.Object, "HasTitle", false)
}

// Title returns the axis title text.
func (a *Axis) Title() string {
	return proxy.Get(a.Object, "AxisTitle", "")
}

package office

import "github.com/wippyai/comproxy/enum"

// Calculation is the workbook recalculation mode.
type Calculation int

const (
	CalculationAutomatic Calculation = iota
	CalculationManual
	CalculationSemiAutomatic
)

var calculations = enum.New[int32](-4105, CalculationAutomatic,
	enum.Of[int32](-4105, CalculationAutomatic),
	enum.Of[int32](-4135, CalculationManual),
	enum.Of[int32](2, CalculationSemiAutomatic),
)

func (c Calculation) String() string {
	switch c {
	case CalculationManual:
		return "manual"
	case CalculationSemiAutomatic:
		return "semi-automatic"
	default:
		return "automatic"
	}
}

// SheetVisibility controls whether a worksheet tab is shown.
type SheetVisibility int

const (
	SheetVisible SheetVisibility = iota
	SheetHidden
	SheetVeryHidden
)

var sheetVisibilities = enum.New[int32](-1, SheetVisible,
	enum.Of[int32](-1, SheetVisible),
	enum.Of[int32](0, SheetHidden),
	enum.Of[int32](2, SheetVeryHidden),
)

func (v SheetVisibility) String() string {
	switch v {
	case SheetHidden:
		return "hidden"
	case SheetVeryHidden:
		return "very-hidden"
	default:
		return "visible"
	}
}

// ChartType is the chart's plot kind.
type ChartType int

const (
	ChartColumnClustered ChartType = iota
	ChartBarClustered
	ChartLine
	ChartPie
	ChartArea
	ChartXYScatter
)

var chartTypes = enum.New[int32](51, ChartColumnClustered,
	enum.Of[int32](51, ChartColumnClustered),
	enum.Of[int32](57, ChartBarClustered),
	enum.Of[int32](4, ChartLine),
	enum.Of[int32](5, ChartPie),
	enum.Of[int32](1, ChartArea),
	enum.Of[int32](-4169, ChartXYScatter),
)

func (t ChartType) String() string {
	switch t {
	case ChartBarClustered:
		return "bar"
	case ChartLine:
		return "line"
	case ChartPie:
		return "pie"
	case ChartArea:
		return "area"
	case ChartXYScatter:
		return "scatter"
	default:
		return "column"
	}
}

// AxisType selects one of a chart's axes.
type AxisType int

const (
	AxisCategory AxisType = iota
	AxisValue
	AxisSeries
)

var axisTypes = enum.New[int32](1, AxisCategory,
	enum.Of[int32](1, AxisCategory),
	enum.Of[int32](2, AxisValue),
	enum.Of[int32](3, AxisSeries),
)

func (t AxisType) String() string {
	switch t {
	case AxisValue:
		return "value"
	case AxisSeries:
		return "series"
	default:
		return "category"
	}
}

// TickMark is the placement of an axis' tick marks.
type TickMark int

const (
	TickMarkOutside TickMark = iota
	TickMarkInside
	TickMarkCross
	TickMarkNone
)

var tickMarks = enum.New[int32](3, TickMarkOutside,
	enum.Of[int32](3, TickMarkOutside),
	enum.Of[int32](2, TickMarkInside),
	enum.Of[int32](4, TickMarkCross),
	enum.Of[int32](-4142, TickMarkNone),
)

func (m TickMark) String() string {
	switch m {
	case TickMarkInside:
		return "inside"
	case TickMarkCross:
		return "cross"
	case TickMarkNone:
		return "none"
	default:
		return "outside"
	}
}

// HorizontalAlignment is a cell's horizontal text alignment.
type HorizontalAlignment int

const (
	AlignGeneral HorizontalAlignment = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignFill
	AlignJustify
)

var alignments = enum.New[int32](1, AlignGeneral,
	enum.Of[int32](1, AlignGeneral),
	enum.Of[int32](-4131, AlignLeft),
	enum.Of[int32](-4108, AlignCenter),
	enum.Of[int32](-4152, AlignRight),
	enum.Of[int32](5, AlignFill),
	enum.Of[int32](-4130, AlignJustify),
)

func (a HorizontalAlignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignFill:
		return "fill"
	case AlignJustify:
		return "justify"
	default:
		return "general"
	}
}

// WindowState is a window's size state.
type WindowState int

const (
	WindowNormal WindowState = iota
	WindowMaximized
	WindowMinimized
)

var windowStates = enum.New[int32](-4143, WindowNormal,
	enum.Of[int32](-4143, WindowNormal),
	enum.Of[int32](-4137, WindowMaximized),
	enum.Of[int32](-4140, WindowMinimized),
)

func (s WindowState) String() string {
	switch s {
	case WindowMaximized:
		return "maximized"
	case WindowMinimized:
		return "minimized"
	default:
		return "normal"
	}
}

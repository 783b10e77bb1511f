package readings

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
)

// SeriesLabel names the single plotted line.
const SeriesLabel = "Water Level"

// Chart is a live rendered chart bound to one Series. It must be destroyed
// before a replacement is created.
type Chart interface {
	View() string
	Series() Series
	Destroy()
}

// Renderer creates charts.
type Renderer interface {
	NewChart(s Series, width, height int) Chart
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(s Series, width, height int) Chart

func (f RendererFunc) NewChart(s Series, width, height int) Chart { return f(s, width, height) }

var (
	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	statsStyle  = lipgloss.NewStyle().Faint(true)
)

// LineChartRenderer draws a braille time-series line chart with ntcharts.
type LineChartRenderer struct {
	// Location used for the hour labels; nil means time.Local.
	Location *time.Location
}

func (r LineChartRenderer) NewChart(s Series, width, height int) Chart {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	c := &lineChart{series: s}
	c.view = drawLineChart(s, max(20, width), max(6, height), loc)
	return c
}

type lineChart struct {
	series    Series
	view      string
	destroyed bool
}

func (c *lineChart) View() string {
	if c.destroyed {
		return ""
	}
	return c.view
}

func (c *lineChart) Series() Series { return c.series }

func (c *lineChart) Destroy() {
	c.destroyed = true
	c.view = ""
	c.series = Series{}
}

func drawLineChart(s Series, width, height int, loc *time.Location) string {
	minT, maxT, minV, maxV, ok := s.bounds()
	if !ok {
		return statsStyle.Render("No plottable readings")
	}
	minT, maxT = minT.In(loc), maxT.In(loc)
	if !maxT.After(minT) {
		minT = minT.Add(-30 * time.Minute)
		maxT = maxT.Add(30 * time.Minute)
	}
	lo, hi := minV, maxV
	if minV == maxV {
		maxV += 0.1
		minV -= 0.1
	}

	lc := timeserieslinechart.New(width, height)
	start, end, xStep := hourTicks(minT, maxT, lc.GraphWidth())
	lc.SetTimeRange(start, end)
	lc.SetViewTimeAndYRange(start, end, minV, maxV)
	lc.SetXStep(xStep)
	lc.Model.XLabelFormatter = func(i int, v float64) string {
		return hourLabel(v, loc)
	}

	// ntcharts joins points in push order, so draw chronologically.
	idx := make([]int, 0, s.Len())
	for i, v := range s.Values {
		if !math.IsNaN(v) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool { return s.Labels[idx[a]].Before(s.Labels[idx[b]]) })
	for _, i := range idx {
		lc.Push(timeserieslinechart.TimePoint{Time: s.Labels[i].In(loc), Value: s.Values[i]})
	}
	lc.DrawBraille()

	b := &strings.Builder{}
	b.WriteString(lc.View())
	b.WriteString("\n")
	b.WriteString(legendStyle.Render("─"))
	b.WriteString(" ")
	b.WriteString(statsStyle.Render(SeriesLabel))
	b.WriteString("\n")
	tzName, _ := minT.Zone()
	b.WriteString(statsStyle.Render(fmt.Sprintf("min %.3f / max %.3f | %s - %s %s | %d readings",
		lo, hi, minT.Format("02 Jan 15:04"), maxT.Format("02 Jan 15:04"), tzName, s.Len())))
	return b.String()
}

// xLabelWidth is one "15:04" label plus the gap before the next.
const xLabelWidth = 6

// hourTicks returns a view window starting on the hour before minT and a
// column step such that every X label falls on a whole hour. Ticks are one
// hour apart unless the graph is too narrow, in which case they are spaced by
// whole multiples of an hour. The window ends at or after maxT.
func hourTicks(minT, maxT time.Time, graphWidth int) (start, end time.Time, xStep int) {
	usable := graphWidth - xLabelWidth
	if usable < xLabelWidth {
		return minT, maxT, max(1, graphWidth)
	}
	start = minT.Truncate(time.Hour)
	hours := int(math.Ceil(maxT.Sub(start).Hours()))
	if hours <= 0 {
		hours = 1
	}
	perTick := 1
	for ceilDiv(hours, perTick)*xLabelWidth > usable {
		perTick++
	}
	xStep = usable / ceilDiv(hours, perTick)
	column := time.Duration(perTick) * time.Hour / time.Duration(xStep)
	end = start.Add(column * time.Duration(graphWidth))
	return start, end, xStep
}

// hourLabel formats an X axis value (unix seconds) to the nearest minute.
func hourLabel(v float64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(int64(math.Round(v)), 0).Round(time.Minute).In(loc).Format("15:04")
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

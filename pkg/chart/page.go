// Package chart renders small standalone HTML pages from go-echarts bar
// charts, built around one-page, one-or-more-section visualizations of a
// marker index.
package chart

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	dataZoomEnd   = 100
	labelFontSize = 10
	styleTagLen   = 8 // len("</style>")
)

// Style controls a chart's overall dimensions and grid margins.
type Style struct {
	Width      string
	Height     string
	GridLeft   string
	GridRight  string
	GridTop    string
	GridBottom string
}

// DefaultStyle is a reasonable single-chart page size.
func DefaultStyle() Style {
	return Style{
		Width:      "1000px",
		Height:     "400px",
		GridLeft:   "5%",
		GridRight:  "5%",
		GridTop:    "40",
		GridBottom: "15%",
	}
}

// Note is a short block of interpretive text under a chart, e.g. explaining
// what a spike in the data means.
type Note struct {
	Title string
	Items []string
}

// Section is one chart plus its surrounding title and note, within a Page.
type Section struct {
	Title    string
	Subtitle string
	Note     Note
	Chart    Renderable
}

// Page is a standalone HTML document holding one or more chart Sections.
type Page struct {
	Title       string
	Description string
	Style       Style
	Sections    []Section
}

// NewPage starts an empty page with the given title and description.
func NewPage(title, description string) *Page {
	return &Page{Title: title, Description: description, Style: DefaultStyle()}
}

// Add appends sections to the page in order.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

// WriteTo renders the page as a complete HTML document.
func (p *Page) WriteTo(w io.Writer) error {
	return htmlRenderer{}.render(w, p)
}

// Renderable is satisfied by any go-echarts chart type (charts.Bar, etc).
type Renderable interface {
	Render(w io.Writer) error
}

type htmlRenderer struct{}

func (r htmlRenderer) render(w io.Writer, page *Page) error {
	err := r.writeHeader(w, page)
	if err != nil {
		return err
	}

	for _, section := range page.Sections {
		err = r.writeSection(w, section)
		if err != nil {
			return err
		}
	}

	return r.writeFooter(w)
}

func (r htmlRenderer) writeHeader(w io.Writer, page *Page) error {
	const tpl = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
    <script src="https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"></script>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            margin: 0; padding: 20px; background: #f5f5f5;
        }
        .mi-page { max-width: 1050px; margin: 0 auto; }
        .mi-page h1 { text-align: center; color: #333; margin-bottom: 10px; }
        .mi-intro { text-align: center; color: #666; margin-bottom: 30px; font-size: 14px; }
        .mi-card {
            background: white; border-radius: 8px; padding: 20px;
            margin-bottom: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .mi-card h2 { font-size: 20px; font-weight: 600; color: #333; margin: 0 0 5px 0; }
        .mi-card > p { font-size: 13px; color: #888; margin: 0 0 15px 0; }
        .mi-chart { overflow-x: auto; }
        .mi-chart > div { margin: 0 auto; }
        .mi-note {
            background: #f8f9fa; border-left: 4px solid #4CAF50;
            padding: 12px 15px; margin-top: 15px; font-size: 13px; color: #555;
        }
        .mi-note strong { color: #333; }
        .mi-note ul { margin: 8px 0 0 0; padding-left: 20px; }
        .mi-note li { margin: 4px 0; }
        .echart-box { display: block; }
        .echart-box .item { margin: 0 auto; }
    </style>
</head>
<body>
<div class="mi-page">
    <h1>%s</h1>
    <p class="mi-intro">%s</p>
`

	_, err := fmt.Fprintf(w, tpl, esc(page.Title), esc(page.Title), esc(page.Description))
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	return nil
}

func (r htmlRenderer) writeSection(w io.Writer, section Section) error {
	chartHTML := renderChart(section.Chart)

	_, err := fmt.Fprintf(w, `
    <div class="mi-card">
        <h2>%s</h2>
        <p>%s</p>
        <div class="mi-chart">%s</div>`, esc(section.Title), esc(section.Subtitle), chartHTML)
	if err != nil {
		return fmt.Errorf("write section header: %w", err)
	}

	if len(section.Note.Items) > 0 {
		writeNote(w, section.Note)
	}

	_, err = fmt.Fprintf(w, "\n    </div>\n")
	if err != nil {
		return fmt.Errorf("write section footer: %w", err)
	}

	return nil
}

func writeNote(w io.Writer, note Note) {
	fmt.Fprint(w, "\n        <div class=\"mi-note\">")

	if note.Title != "" {
		fmt.Fprintf(w, "<strong>%s</strong>", esc(note.Title))
	}

	fmt.Fprint(w, "\n            <ul>")

	for _, item := range note.Items {
		fmt.Fprintf(w, "\n                <li>%s</li>", esc(item))
	}

	fmt.Fprint(w, "\n            </ul>\n        </div>")
}

func (r htmlRenderer) writeFooter(w io.Writer) error {
	_, err := fmt.Fprint(w, "\n</div>\n</body>\n</html>")
	if err != nil {
		return fmt.Errorf("write footer: %w", err)
	}

	return nil
}

// BarChart is a fluent builder over go-echarts' charts.Bar, scoped to the
// single-series bar charts this package renders.
type BarChart struct {
	bar *charts.Bar
}

// NewBarChart starts a bar chart sized per style.
func NewBarChart(style Style) *BarChart {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithInitializationOpts(opts.Initialization{Width: style.Width, Height: style.Height}),
		charts.WithGridOpts(opts.Grid{
			Left: style.GridLeft, Right: style.GridRight,
			Top: style.GridTop, Bottom: style.GridBottom,
			ContainLabel: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "slider", Start: 0, End: dataZoomEnd},
			opts.DataZoom{Type: "inside"},
		),
	)

	return &BarChart{bar: bar}
}

// XAxis sets the category labels shown along the x-axis.
func (b *BarChart) XAxis(labels []string) *BarChart {
	b.bar.SetGlobalOptions(charts.WithXAxisOpts(opts.XAxis{
		AxisLabel: &opts.AxisLabel{Interval: "0", FontSize: labelFontSize},
	}))
	b.bar.SetXAxis(labels)

	return b
}

// YAxis names the y-axis.
func (b *BarChart) YAxis(name string) *BarChart {
	b.bar.SetGlobalOptions(charts.WithYAxisOpts(opts.YAxis{Name: name}))

	return b
}

// Series adds one named data series, colored with color.
func (b *BarChart) Series(name string, data []int, color string) *BarChart {
	barData := make([]opts.BarData, len(data))

	for i, v := range data {
		barData[i] = opts.BarData{Value: v}
	}

	b.bar.AddSeries(name, barData, charts.WithItemStyleOpts(opts.ItemStyle{Color: color}))

	return b
}

// Build returns the underlying chart for embedding in a Section.
func (b *BarChart) Build() *charts.Bar {
	return b.bar
}

func renderChart(chart Renderable) string {
	if chart == nil {
		return ""
	}

	var buf bytes.Buffer

	err := chart.Render(&buf)
	if err != nil {
		return ""
	}

	return extractChartContent(buf.String())
}

func extractChartContent(html string) string {
	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}

	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}

	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)
	content = removeStyleTags(content)

	return content
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			break
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			break
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}

	return content
}

func esc(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")

	return s
}

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yanqian/lunar-calendar/internal/domain/lunar"
)

const cellWidth = 4

var (
	darkText  = lipgloss.Color("#000000")
	lightText = lipgloss.Color("#ffffff")
	mutedText = lipgloss.Color("#8a8a8a")
)

// Renderer draws service results for a terminal. Colour support is detected
// from the output writer, so piped output stays plain.
type Renderer struct {
	r *lipgloss.Renderer
}

// NewRenderer binds a renderer to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{r: lipgloss.NewRenderer(w)}
}

// Grid renders the title, a month header and one row per day. Each occupied
// cell shows the illumination percentage on a gray of matching intensity.
func (r *Renderer) Grid(resp lunar.CalendarResponse) string {
	var b strings.Builder
	b.WriteString(r.r.NewStyle().Bold(true).Render(resp.Title))
	b.WriteByte('\n')

	b.WriteString(strings.Repeat(" ", cellWidth))
	for _, label := range resp.Grid.Months {
		b.WriteString(fmt.Sprintf("%-*s", cellWidth, label))
	}

	for i, row := range resp.Grid.Rows {
		b.WriteByte('\n')
		b.WriteString(r.r.NewStyle().Foreground(mutedText).Render(fmt.Sprintf("%3d ", i+1)))
		for _, cell := range row {
			b.WriteString(r.cell(cell))
		}
	}
	return b.String()
}

func (r *Renderer) cell(c lunar.GridCell) string {
	if !c.Occupied || c.Fraction == nil || c.Intensity == nil {
		return strings.Repeat(" ", cellWidth)
	}
	v := *c.Intensity
	fg := lightText
	if c.TextTone() == "dark" {
		fg = darkText
	}
	return r.r.NewStyle().
		Background(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", v, v, v))).
		Foreground(fg).
		Render(fmt.Sprintf("%3.0f ", *c.Fraction*100))
}

// Day renders the inspection payload as "date  percent%  phase".
func (r *Renderer) Day(p lunar.TooltipPayload) string {
	date := r.r.NewStyle().Bold(true).Render(p.FormattedDate)
	phase := r.r.NewStyle().Foreground(mutedText).Render(p.Phase.String())
	return fmt.Sprintf("%s  %s%%  %s", date, p.IlluminationPercent, phase)
}

// Presets renders the preset table as aligned value/label pairs.
func (r *Renderer) Presets(presets []lunar.Preset) string {
	width := 0
	for _, p := range presets {
		width = max(width, len(p.Value))
	}
	lines := make([]string, 0, len(presets))
	value := r.r.NewStyle().Foreground(mutedText)
	for _, p := range presets {
		lines = append(lines, value.Render(fmt.Sprintf("%-*s", width, p.Value))+"  "+p.Label)
	}
	return strings.Join(lines, "\n")
}

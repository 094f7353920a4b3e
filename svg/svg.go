// Package svg paints diagram frames as standalone SVG documents.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/lucasefe/dbdiagram/diagram"
	"github.com/lucasefe/dbdiagram/geom"
	"github.com/lucasefe/dbdiagram/model"
)

// Theme holds the colors and font used for a document.
type Theme struct {
	Background  string
	TableFill   string
	TableStroke string
	HeaderFill  string
	HeaderText  string
	Text        string
	TypeText    string
	EdgeStroke  string
	FontFamily  string
	FontSize    float64
}

// DefaultTheme returns the light theme.
func DefaultTheme() Theme {
	return Theme{
		Background:  "#ffffff",
		TableFill:   "#ffffff",
		TableStroke: "#c7cdd6",
		HeaderFill:  "#316896",
		HeaderText:  "#ffffff",
		Text:        "#1f2933",
		TypeText:    "#7b8794",
		EdgeStroke:  "#5a6b7d",
		FontFamily:  "Helvetica, Arial, sans-serif",
		FontSize:    13,
	}
}

// Painter writes drawables as SVG elements. Begin and End must bracket the draw
// calls.
type Painter struct {
	w     io.Writer
	theme Theme
}

// NewPainter returns a Painter writing to w.
func NewPainter(w io.Writer, theme Theme) *Painter {
	return &Painter{w: w, theme: theme}
}

// Render writes a complete document for items on a canvas of the given size.
func Render(w io.Writer, canvas geom.Size, items []diagram.Drawable, theme Theme) error {
	p := NewPainter(w, theme)
	if err := p.Begin(canvas); err != nil {
		return err
	}
	if err := diagram.Paint(p, items); err != nil {
		return err
	}
	return p.End()
}

// Begin writes the document header and background.
func (p *Painter) Begin(canvas geom.Size) error {
	return p.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" font-family="%s" font-size="%s">
<rect width="100%%" height="100%%" fill="%s"/>
`, num(canvas.Width), num(canvas.Height), num(canvas.Width), num(canvas.Height),
		esc(p.theme.FontFamily), num(p.theme.FontSize), esc(p.theme.Background))
}

// End closes the document.
func (p *Painter) End() error {
	return p.printf("</svg>\n")
}

// DrawLine writes a line element.
func (p *Painter) DrawLine(l diagram.Line) error {
	dash := ""
	if len(l.Dash) > 0 {
		parts := make([]string, len(l.Dash))
		for i, d := range l.Dash {
			parts[i] = num(d)
		}
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, ","))
	}
	return p.printf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"%s/>
`, num(l.From.X), num(l.From.Y), num(l.To.X), num(l.To.Y), esc(l.Color), num(l.Width), dash)
}

// DrawEdge writes a path element with a dot on each anchor.
func (p *Painter) DrawEdge(e diagram.Edge) error {
	if len(e.Points) < 2 {
		return fmt.Errorf("edge for ref %d has %d points", e.RefID, len(e.Points))
	}
	var d strings.Builder
	fmt.Fprintf(&d, "M %s", pt(e.Points[0]))
	switch {
	case e.Kind == diagram.EdgeCurve && len(e.Points) == 4:
		fmt.Fprintf(&d, " C %s %s %s", pt(e.Points[1]), pt(e.Points[2]), pt(e.Points[3]))
	default:
		for _, q := range e.Points[1:] {
			fmt.Fprintf(&d, " L %s", pt(q))
		}
	}
	start, end := e.Start(), e.End()
	return p.printf(`<g class="edge" data-ref="%d" data-from="%d" data-to="%d">
<path d="%s" fill="none" stroke="%s" stroke-width="1.5"/>
<circle cx="%s" cy="%s" r="3" fill="%s"/>
<circle cx="%s" cy="%s" r="3" fill="%s"/>
</g>
`, e.RefID, e.FromFieldID, e.ToFieldID, d.String(), esc(p.theme.EdgeStroke),
		num(start.X), num(start.Y), esc(p.theme.EdgeStroke),
		num(end.X), num(end.Y), esc(p.theme.EdgeStroke))
}

// DrawTableBox writes a table card: frame, header band, name and one row per field.
func (p *Painter) DrawTableBox(b diagram.TableBox) error {
	header := p.theme.HeaderFill
	if b.HeaderColor != "" {
		header = b.HeaderColor
	}
	name := b.Name
	if b.Schema != "" && b.Schema != model.DefaultSchemaName {
		name = b.Schema + "." + b.Name
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<g class="table" data-table="%d">
<rect x="%s" y="%s" width="%s" height="%s" rx="4" fill="%s" stroke="%s"/>
<rect x="%s" y="%s" width="%s" height="%s" rx="4" fill="%s"/>
<text x="%s" y="%s" fill="%s" font-weight="bold" dominant-baseline="middle">%s</text>
`, b.TableID,
		num(b.Rect.X), num(b.Rect.Y), num(b.Rect.Width), num(b.Rect.Height), esc(p.theme.TableFill), esc(p.theme.TableStroke),
		num(b.Header.X), num(b.Header.Y), num(b.Header.Width), num(b.Header.Height), esc(header),
		num(b.Header.X+8), num(b.Header.Center().Y), esc(p.theme.HeaderText), esc(name))
	for _, row := range b.Rows {
		weight := "normal"
		if row.PK {
			weight = "bold"
		}
		suffix := ""
		if row.NotNull {
			suffix = " !"
		}
		y := row.Rect.Center().Y
		fmt.Fprintf(&buf, `<text x="%s" y="%s" fill="%s" font-weight="%s" dominant-baseline="middle" data-field="%d">%s</text>
<text x="%s" y="%s" fill="%s" text-anchor="end" dominant-baseline="middle">%s</text>
`, num(row.Rect.X+8), num(y), esc(p.theme.Text), weight, row.FieldID, esc(row.Name),
			num(row.Rect.Right()-8), num(y), esc(p.theme.TypeText), esc(row.Type+suffix))
	}
	buf.WriteString("</g>\n")
	_, err := p.w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to write table %q: %w", b.Name, err)
	}
	return nil
}

func (p *Painter) printf(format string, args ...any) error {
	if _, err := fmt.Fprintf(p.w, format, args...); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

// num formats a coordinate with at most two decimals.
func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

func pt(p geom.Point) string {
	return num(p.X) + " " + num(p.Y)
}

// esc escapes s for use in text content and quoted attributes.
func esc(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

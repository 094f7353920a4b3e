package svg

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasefe/dbdiagram/diagram"
	"github.com/lucasefe/dbdiagram/geom"
	"github.com/lucasefe/dbdiagram/resolver"
)

func TestRenderDocument(t *testing.T) {
	items := []diagram.Drawable{
		diagram.TableBox{
			TableID:     1,
			Schema:      "audit",
			Name:        "logs & <events>",
			HeaderColor: "#ff0000",
			Rect:        geom.R(0, 0, 200, 56),
			Header:      geom.R(0, 0, 200, 32),
			Rows: []diagram.TableRow{
				{FieldID: 2, Name: "id", Type: "int", PK: true, NotNull: true, Rect: geom.R(0, 32, 200, 24)},
			},
		},
		diagram.Edge{
			RefID:  3,
			Kind:   diagram.EdgeCurve,
			Points: []geom.Point{geom.Pt(200, 44), geom.Pt(250, 44), geom.Pt(250, 100), geom.Pt(300, 100)},
		},
		diagram.Edge{
			Kind:   diagram.EdgeLoop,
			Points: []geom.Point{geom.Pt(200, 44), geom.Pt(224, 44), geom.Pt(224, 68), geom.Pt(200, 68)},
		},
		diagram.Line{From: geom.Pt(0, 10.125), To: geom.Pt(400, 10.125), Width: 1, Dash: []float64{5, 5}, Color: "black"},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, geom.Size{Width: 400, Height: 300}, items, DefaultTheme()))
	out := buf.String()

	expectedContains := []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300" viewBox="0 0 400 300"`,
		`data-table="1"`,
		`fill="#ff0000"`,
		`audit.logs &amp; &lt;events&gt;`,
		`font-weight="bold" dominant-baseline="middle" data-field="2">id</text>`,
		`>int !</text>`,
		`d="M 200 44 C 250 44 250 100 300 100"`,
		`d="M 200 44 L 224 44 L 224 68 L 200 68"`,
		`<line x1="0" y1="10.13" x2="400" y2="10.13" stroke="black" stroke-width="1" stroke-dasharray="5,5"/>`,
	}
	for _, want := range expectedContains {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestRenderPublicSchemaUnqualified(t *testing.T) {
	var buf bytes.Buffer
	items := []diagram.Drawable{diagram.TableBox{Schema: "public", Name: "users", Rect: geom.R(0, 0, 10, 10)}}
	require.NoError(t, Render(&buf, geom.Size{Width: 10, Height: 10}, items, DefaultTheme()))
	assert.Contains(t, buf.String(), ">users</text>")
	assert.NotContains(t, buf.String(), "public.users")
}

func TestRenderRejectsDegenerateEdge(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, geom.Size{Width: 10, Height: 10}, []diagram.Drawable{diagram.Edge{Points: []geom.Point{geom.Pt(0, 0)}}}, DefaultTheme())
	assert.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderWriteError(t *testing.T) {
	err := Render(failingWriter{}, geom.Size{Width: 10, Height: 10}, nil, DefaultTheme())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRenderController(t *testing.T) {
	res := resolver.Resolve("Table users {\n  id int [pk]\n}\nTable posts {\n  user_id int [ref: > users.id]\n}\n")
	c := diagram.NewController()
	defer c.Close()
	c.SetModel(res.Model)

	canvas := geom.Size{Width: 600, Height: 200}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, canvas, c.Frame(canvas), DefaultTheme()))
	assert.Equal(t, 2, strings.Count(buf.String(), `class="table"`))
	assert.Equal(t, 1, strings.Count(buf.String(), `class="edge"`))
}

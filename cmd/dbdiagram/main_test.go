package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/lucasefe/dbdiagram"
	"github.com/lucasefe/dbdiagram/config"
	"github.com/lucasefe/dbdiagram/relation"
	"github.com/lucasefe/dbdiagram/resolver"
)

const shopSource = `Table orders {
  id int [pk]
}

Table order_items {
  order_id int [ref: > orders.id]
  product_id int
}

Table products {
  id int [pk]
}

Ref: order_items.product_id > products.id
`

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList("  "))
	assert.Equal(t, []string{"public", "auth"}, splitList(" public, auth ,"))
}

func TestWriteStructuredYAML(t *testing.T) {
	var buf bytes.Buffer
	v := map[string]any{"name": "users", "flag": "true", "items": []int{1, 2}}
	require.NoError(t, writeStructured(&buf, "yaml", v))

	out := buf.String()
	assert.Contains(t, out, "name: users\n")
	assert.Contains(t, out, `flag: "true"`)
	assert.Contains(t, out, "items:\n  - 1\n  - 2\n")
}

func TestWriteStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeStructured(&buf, "json", map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())
}

func TestWriteStructuredUnknownFormat(t *testing.T) {
	assert.Error(t, writeStructured(&bytes.Buffer{}, "toml", nil))
}

func TestRelationRows(t *testing.T) {
	m := resolver.Resolve(shopSource).Model
	rows := relationRows(m, relation.Derive(m))

	require.Len(t, rows, 2)
	assert.Equal(t, "order_items.order_id", rows[0].From)
	assert.Equal(t, ">", rows[0].Operator)
	assert.Equal(t, "orders.id", rows[0].To)
	assert.Equal(t, "order_items.product_id", rows[1].From)
	assert.Equal(t, "products.id", rows[1].To)
}

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.dbml")
	require.NoError(t, os.WriteFile(path, []byte(shopSource), 0644))

	src, err := readSource(path)
	require.NoError(t, err)
	assert.Equal(t, shopSource, src)

	_, err = readSource(filepath.Join(t.TempDir(), "missing.dbml"))
	assert.Error(t, err)
}

func TestRenderWatchedKeepsController(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shop.dbml")
	output := filepath.Join(dir, "shop.svg")
	require.NoError(t, os.WriteFile(path, []byte(shopSource), 0644))

	cfg := config.Default()
	c := dbdiagram.NewController(cfg, nil)
	defer c.Close()
	r := resolver.New()

	require.NoError(t, renderWatched(r, c, cfg, path, output))
	assert.Equal(t, 4, c.Registry().Len())

	// drop products; its field and the second edge go away
	edited := strings.Replace(shopSource, "Table products {\n  id int [pk]\n}\n", "", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0644))
	require.NoError(t, renderWatched(r, c, cfg, path, output))
	assert.Equal(t, 3, c.Registry().Len())

	svg, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(svg), `class="edge"`))
}

func TestRenderWatchedMissingSource(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.svg")
	cfg := config.Default()
	c := dbdiagram.NewController(cfg, nil)
	defer c.Close()

	err := renderWatched(resolver.New(), c, cfg, filepath.Join(dir, "nope.dbml"), output)
	assert.Error(t, err)
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUseColorFollowsWriter(t *testing.T) {
	tests := []struct {
		mode string
		want bool
	}{
		{"auto", false},
		{"on", true},
		{"off", false},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.PersistentFlags().String("color", tt.mode, "")

			var buf bytes.Buffer
			got, err := useColor(cmd, &buf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	cmd := &cobra.Command{}
	cmd.PersistentFlags().String("color", "sometimes", "")
	_, err := useColor(cmd, &bytes.Buffer{})
	assert.Error(t, err)
}

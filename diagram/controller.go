// Package diagram renders a resolved model as a table diagram.
//
// A Controller owns the per-diagram state: the event manager, the field registry
// fed by it, the viewport and the alignment guides. Each frame is produced from
// scratch as a list of Drawables that any Painter can consume.
package diagram

import (
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/lucasefe/dbdiagram/diagram/event"
	"github.com/lucasefe/dbdiagram/geom"
	"github.com/lucasefe/dbdiagram/model"
	"github.com/lucasefe/dbdiagram/relation"
)

// Option configures a Controller.
type Option func(*options)

type options struct {
	layout   Layout
	logger   *slog.Logger
	minScale float64
	maxScale float64
}

func defaultOptions() *options {
	return &options{
		layout:   DefaultLayout(),
		logger:   slog.New(slog.DiscardHandler),
		minScale: DefaultMinScale,
		maxScale: DefaultMaxScale,
	}
}

// WithLayout sets the grid used to place tables.
func WithLayout(l Layout) Option {
	return func(o *options) {
		o.layout = l
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithScaleLimits sets the zoom range. Invalid limits are ignored.
func WithScaleLimits(minScale, maxScale float64) Option {
	return func(o *options) {
		if minScale > 0 && maxScale >= minScale {
			o.minScale, o.maxScale = minScale, maxScale
		}
	}
}

// Controller drives one diagram instance.
type Controller struct {
	id       uuid.UUID
	logger   *slog.Logger
	layout   Layout
	events   *event.Manager
	registry *FieldRegistry
	viewport *Viewport
	edges    EdgeRenderer
	guideR   GuideRenderer

	model      *model.ProjectModel
	relations  []relation.Relation
	placements []Placement
	offsets    map[model.ID]geom.Point
	mounted    []*event.Handle
	guides     []Guide
	closed     bool
}

// NewController returns a controller with an empty model.
func NewController(opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	events := event.NewManager()
	registry := NewFieldRegistry(events)
	viewport := NewViewport()
	_ = viewport.SetLimits(o.minScale, o.maxScale)

	id := uuid.New()
	return &Controller{
		id:       id,
		logger:   o.logger.With("diagram", id.String()),
		layout:   o.layout,
		events:   events,
		registry: registry,
		viewport: viewport,
		edges:    EdgeRenderer{Registry: registry, Viewport: viewport},
		guideR:   GuideRenderer{Viewport: viewport},
		offsets:  make(map[model.ID]geom.Point),
	}
}

// ID returns the instance id used in log records.
func (c *Controller) ID() uuid.UUID { return c.id }

// Events returns the controller's event manager.
func (c *Controller) Events() *event.Manager { return c.events }

// Registry returns the field registry.
func (c *Controller) Registry() *FieldRegistry { return c.registry }

// Viewport returns the viewport.
func (c *Controller) Viewport() *Viewport { return c.viewport }

// Model returns the current model, or nil.
func (c *Controller) Model() *model.ProjectModel { return c.model }

// Relations returns the relations derived from the current model.
func (c *Controller) Relations() []relation.Relation { return c.relations }

// Placements returns the world placement of every table.
func (c *Controller) Placements() []Placement { return c.placements }

// SetModel replaces the model. Relations are derived again and every field is
// remounted with a fresh handle. Table offsets are kept for tables whose id
// survives.
func (c *Controller) SetModel(m *model.ProjectModel) {
	if c.closed {
		return
	}
	c.model = m
	c.relations = relation.Derive(m)
	c.placements = c.layout.Place(m)

	live := make(map[model.ID]bool, len(c.placements))
	for _, p := range c.placements {
		live[p.Table.ID] = true
	}
	for id := range c.offsets {
		if !live[id] {
			delete(c.offsets, id)
		}
	}

	c.remount()
	c.logger.Debug("model replaced",
		"tables", len(c.placements),
		"relations", len(c.relations),
		"fields", c.registry.Len())
}

// MoveTable drags a table by a world-space delta and remounts its fields. It
// reports whether the table exists.
func (c *Controller) MoveTable(id model.ID, dx, dy float64) bool {
	if c.closed {
		return false
	}
	for _, p := range c.placements {
		if p.Table.ID == id {
			c.offsets[id] = c.offsets[id].Add(geom.Pt(dx, dy))
			c.remount()
			return true
		}
	}
	return false
}

// TableRect returns the current world rectangle of a table.
func (c *Controller) TableRect(id model.ID) (geom.Rect, bool) {
	for _, p := range c.placements {
		if p.Table.ID == id {
			return p.Rect.Translate(c.offsets[id]), true
		}
	}
	return geom.Rect{}, false
}

// remount mounts a new handle for every field, then unmounts the previous ones. The
// inserts go first, as they do when a widget tree rebuilds a subtree, so the
// registry sees removals for handles it already replaced.
func (c *Controller) remount() {
	previous := c.mounted
	c.mounted = make([]*event.Handle, 0, len(previous))
	for _, p := range c.placements {
		rect := p.Rect.Translate(c.offsets[p.Table.ID])
		for i, f := range p.Table.Fields {
			bounds := c.layout.FieldRect(rect, i)
			h := event.NewHandle(f.ID, func() (geom.Rect, bool) { return bounds, true })
			c.mounted = append(c.mounted, h)
			c.events.Emit(event.FieldInsertEvent{ID: f.ID, Handle: h})
		}
	}
	for _, h := range previous {
		c.events.Emit(event.FieldRemoveEvent{ID: h.FieldID(), Handle: h})
	}
}

// AddGuide pins an alignment guide.
func (c *Controller) AddGuide(g Guide) {
	c.guides = append(c.guides, g)
}

// Guides returns the pinned guides.
func (c *Controller) Guides() []Guide { return c.guides }

// ClearGuides removes every guide.
func (c *Controller) ClearGuides() {
	c.guides = nil
}

// Pan moves the view by a screen-space delta.
func (c *Controller) Pan(dx, dy float64) {
	c.viewport.Pan(dx, dy)
}

// Zoom scales the view around a screen point.
func (c *Controller) Zoom(at geom.Point, factor float64) error {
	return c.viewport.ZoomAt(at, factor)
}

// Bounds returns the world rectangle covering every table, or false when there are
// none.
func (c *Controller) Bounds() (geom.Rect, bool) {
	if len(c.placements) == 0 {
		return geom.Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range c.placements {
		r := p.Rect.Translate(c.offsets[p.Table.ID])
		minX, minY = math.Min(minX, r.Left()), math.Min(minY, r.Top())
		maxX, maxY = math.Max(maxX, r.Right()), math.Max(maxY, r.Bottom())
	}
	return geom.R(minX, minY, maxX-minX, maxY-minY), true
}

// Fit sets the viewport so every table is visible on a canvas of the given size,
// leaving padding screen units around the diagram.
func (c *Controller) Fit(canvas geom.Size, padding float64) error {
	b, ok := c.Bounds()
	if !ok {
		c.viewport.SetTranslation(geom.Pt(padding, padding))
		return nil
	}
	scale := 1.0
	if b.Width > 0 && b.Height > 0 {
		scale = math.Min((canvas.Width-2*padding)/b.Width, (canvas.Height-2*padding)/b.Height)
	}
	if err := c.viewport.SetScale(scale); err != nil {
		return err
	}
	s := c.viewport.Scale()
	c.viewport.SetTranslation(geom.Pt(padding-b.X*s, padding-b.Y*s))
	return nil
}

// Frame returns the drawables of one paint pass: table boxes, then edges, then
// guides. Everything is recomputed from the current registry and viewport.
func (c *Controller) Frame(canvas geom.Size) []Drawable {
	if c.closed {
		return nil
	}
	edges := c.edges.Paint(c.relations)
	items := make([]Drawable, 0, len(c.placements)+len(edges)+len(c.guides))
	for _, p := range c.placements {
		items = append(items, c.tableBox(p))
	}
	for _, e := range edges {
		items = append(items, e)
	}
	for _, g := range c.guides {
		items = append(items, c.guideR.Paint(g, canvas))
	}
	return items
}

func (c *Controller) tableBox(p Placement) TableBox {
	world := p.Rect.Translate(c.offsets[p.Table.ID])
	box := TableBox{
		TableID:     p.Table.ID,
		Schema:      p.Schema,
		Name:        p.Table.Name,
		HeaderColor: p.Table.Meta.HeaderColor,
		Rect:        c.viewport.RectToScreen(world),
		Header:      c.viewport.RectToScreen(c.layout.HeaderRect(world)),
		Rows:        make([]TableRow, 0, len(p.Table.Fields)),
	}
	for i, f := range p.Table.Fields {
		box.Rows = append(box.Rows, TableRow{
			FieldID: f.ID,
			Name:    f.Name,
			Type:    f.Type.String(),
			PK:      f.PK,
			NotNull: f.NotNull,
			Rect:    c.viewport.RectToScreen(c.layout.FieldRect(world, i)),
		})
	}
	return box
}

// Close unmounts every field and shuts the event manager down. The controller is
// unusable afterwards.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	for _, h := range c.mounted {
		c.events.Emit(event.FieldRemoveEvent{ID: h.FieldID(), Handle: h})
	}
	c.mounted = nil
	c.registry.Detach()
	c.events.Close()
	c.closed = true
	c.logger.Debug("diagram closed")
}

package session

import (
	"github.com/jsphweid/chordlight/palette"
	"github.com/lucasb-eyer/go-colorful"
)

// ColorStore remembers the color pattern of every chord label for the life of
// the session. Assignments are never removed.
type ColorStore struct {
	generator palette.Generator
	lights    int
	assigned  map[string][]colorful.Color
}

func NewColorStore(generator palette.Generator, lights int) *ColorStore {
	if lights < 1 {
		panic("color store needs at least one light")
	}
	return &ColorStore{
		generator: generator,
		lights:    lights,
		assigned:  make(map[string][]colorful.Color),
	}
}

// ColorsFor returns the label's colors, assigning them on first use.
func (c *ColorStore) ColorsFor(label string) []colorful.Color {
	colors, ok := c.assigned[label]
	if !ok {
		colors = c.generator.Colors(label, c.lights)
		c.assigned[label] = colors
	}
	return append([]colorful.Color(nil), colors...)
}

// Warm assigns colors to labels ahead of time.
func (c *ColorStore) Warm(labels []string) {
	for _, label := range labels {
		c.ColorsFor(label)
	}
}

func (c *ColorStore) Has(label string) bool {
	_, ok := c.assigned[label]
	return ok
}

func (c *ColorStore) Len() int {
	return len(c.assigned)
}

func (c *ColorStore) Lights() int {
	return c.lights
}

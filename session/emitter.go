package session

import (
	"github.com/jsphweid/chordlight/model"
	"github.com/jsphweid/chordlight/palette"
	"github.com/lucasb-eyer/go-colorful"
)

// Lights is the lighting bridge. SendLightUpdate must not block on the
// bridge; the session neither waits for nor checks the outcome.
type Lights interface {
	Convert(c colorful.Color) model.BridgeColor
	SendLightUpdate(colors []model.BridgeColor, intensity float64)
}

// Display is the local presentation surface.
type Display interface {
	// Start is called once, on the first note of the session.
	Start()
	Show(label string, background colorful.Color)
}

type Emitter struct {
	store   *ColorStore
	lights  Lights
	display Display
}

func NewEmitter(store *ColorStore, lights Lights, display Display) *Emitter {
	if lights == nil {
		lights = discardLights{}
	}
	if display == nil {
		display = discardDisplay{}
	}
	return &Emitter{store: store, lights: lights, display: display}
}

// Emit shows the chord's first color locally and sends one light update
// carrying every color. It returns the colors used.
func (e *Emitter) Emit(label string, intensity float64) []colorful.Color {
	colors := e.store.ColorsFor(label)

	e.display.Show(label, colors[0])

	converted := make([]model.BridgeColor, len(colors))
	for i, c := range colors {
		converted[i] = e.lights.Convert(c)
	}
	e.lights.SendLightUpdate(converted, intensity)
	return colors
}

type discardLights struct{}

func (discardLights) Convert(c colorful.Color) model.BridgeColor {
	return palette.ToBridgeColor(c)
}

func (discardLights) SendLightUpdate([]model.BridgeColor, float64) {}

type discardDisplay struct{}

func (discardDisplay) Start() {}

func (discardDisplay) Show(string, colorful.Color) {}

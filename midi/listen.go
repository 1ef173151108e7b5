package midi

import (
	"strconv"
	"strings"

	"github.com/jsphweid/chordlight/model"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// InPorts lists the input port names of the registered driver.
func InPorts() []string {
	var names []string
	for _, in := range gomidi.GetInPorts() {
		names = append(names, in.String())
	}
	return names
}

// FindInPort picks an input by number or by a case-insensitive part of its
// name. An empty port means the first input.
func FindInPort(port string) (drivers.In, error) {
	if port == "" {
		return gomidi.InPort(0)
	}
	if n, err := strconv.Atoi(port); err == nil {
		return gomidi.InPort(n)
	}
	for _, in := range gomidi.GetInPorts() {
		if containsCI(in.String(), port) {
			return in, nil
		}
	}
	return nil, errors.Errorf("no MIDI input matching %q", port)
}

// Listen delivers note events from in until stop is called. handle runs on
// the driver's goroutine, one message at a time.
func Listen(in drivers.In, lowKey int, handle func(model.NoteEvent)) (stop func(), err error) {
	return gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		if evt, ok := Translate(msg, lowKey); ok {
			handle(evt)
		}
	})
}

// Translate turns a note start or end into a note event. Note-on with zero
// velocity counts as a note end.
func Translate(msg gomidi.Message, lowKey int) (model.NoteEvent, bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return model.NoteEvent{Note: NoteID(key, lowKey), Velocity: vel, On: true}, true
	case msg.GetNoteEnd(&ch, &key):
		return model.NoteEvent{Note: NoteID(key, lowKey)}, true
	}
	return model.NoteEvent{}, false
}

func CloseDriver() {
	gomidi.CloseDriver()
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

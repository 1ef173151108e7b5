package midi

import (
	"context"
	"sort"
	"time"

	"github.com/jsphweid/chordlight/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

type TimedEvent struct {
	// Offset from the start of the file in microseconds.
	Offset   int64
	Key      uint8
	Velocity uint8
	On       bool
}

// NoteEvents merges the note on/off events of every track into one timeline.
// Events sharing an offset put note-offs first, so a re-struck chord is
// released before it is pressed again.
func NoteEvents(s *smf.SMF) []TimedEvent {
	var events []TimedEvent

	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				events = append(events, TimedEvent{
					Offset:   s.TimeAt(absTicks),
					Key:      key,
					Velocity: velocity,
					On:       velocity > 0,
				})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				events = append(events, TimedEvent{
					Offset: s.TimeAt(absTicks),
					Key:    key,
				})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Offset != events[j].Offset {
			return events[i].Offset < events[j].Offset
		}
		return !events[i].On && events[j].On
	})
	return events
}

// NoteID offsets a MIDI key against the lowest key of the instrument.
func NoteID(key uint8, lowKey int) int {
	return int(key) - lowKey
}

func (e TimedEvent) NoteEvent(lowKey int) model.NoteEvent {
	return model.NoteEvent{Note: NoteID(e.Key, lowKey), Velocity: e.Velocity, On: e.On}
}

// Replay hands events to handle in order. With pace set it sleeps between
// events so they arrive as they were played.
func Replay(ctx context.Context, events []TimedEvent, lowKey int, pace bool, handle func(model.NoteEvent)) error {
	var last int64
	for _, e := range events {
		if pace && e.Offset > last {
			timer := time.NewTimer(time.Duration(e.Offset-last) * time.Microsecond)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		last = e.Offset
		handle(e.NoteEvent(lowKey))
	}
	return nil
}

package midi

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jsphweid/chordlight/constants"
	"github.com/jsphweid/chordlight/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// C major struck twice, then a lone note on a second track.
func writeSong(t *testing.T) string {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(960)

	var chords smf.Track
	chords.Add(0, gomidi.NoteOn(0, 60, 100))
	chords.Add(0, gomidi.NoteOn(0, 64, 100))
	chords.Add(0, gomidi.NoteOn(0, 67, 100))
	chords.Add(480, gomidi.NoteOff(0, 60))
	chords.Add(0, gomidi.NoteOff(0, 64))
	chords.Add(0, gomidi.NoteOn(0, 67, 0))
	chords.Close(0)
	require.NoError(t, s.Add(chords))

	var melody smf.Track
	melody.Add(480, gomidi.NoteOn(0, 72, 50))
	melody.Add(480, gomidi.NoteOff(0, 72))
	melody.Close(0)
	require.NoError(t, s.Add(melody))

	path := filepath.Join(t.TempDir(), "song.mid")
	require.NoError(t, s.WriteFile(path))
	return path
}

func TestReadMidiFileAndNoteEvents(t *testing.T) {
	assert := assert.New(t)
	s, err := ReadMidiFile(writeSong(t))
	require.NoError(t, err)

	events := NoteEvents(s)
	require.Len(t, events, 8)

	for _, e := range events[:3] {
		assert.True(e.On)
		assert.Equal(int64(0), e.Offset)
	}
	// at the same offset the three releases come before the melody note
	for _, e := range events[3:6] {
		assert.False(e.On)
		assert.Greater(e.Offset, int64(0))
	}
	assert.True(events[6].On)
	assert.Equal(uint8(72), events[6].Key)
	assert.Equal(events[3].Offset, events[6].Offset)
	assert.False(events[7].On)
	assert.Greater(events[7].Offset, events[6].Offset)
}

func TestReadMidiFileErrors(t *testing.T) {
	_, err := ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.mid")
	require.NoError(t, os.WriteFile(garbage, []byte("not a midi file"), 0644))
	_, err = ReadMidiFile(garbage)
	assert.Error(t, err)
}

func TestReplayDeliversInOrder(t *testing.T) {
	events := []TimedEvent{
		{Offset: 0, Key: 21, Velocity: 80, On: true},
		{Offset: 10, Key: 25, Velocity: 90, On: true},
		{Offset: 20, Key: 21},
	}

	var got []model.NoteEvent
	err := Replay(context.Background(), events, constants.MidiLowA, true, func(e model.NoteEvent) {
		got = append(got, e)
	})
	require.NoError(t, err)
	assert.Equal(t, []model.NoteEvent{
		{Note: 0, Velocity: 80, On: true},
		{Note: 4, Velocity: 90, On: true},
		{Note: 0},
	}, got)
}

func TestReplayStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events := []TimedEvent{
		{Offset: 0, Key: 60, On: true},
		{Offset: int64(time.Hour / time.Microsecond), Key: 60},
	}

	var got int
	err := Replay(ctx, events, 0, true, func(model.NoteEvent) {
		got++
		cancel()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, got)
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		name string
		msg  gomidi.Message
		evt  model.NoteEvent
		ok   bool
	}{
		{"note on", gomidi.NoteOn(0, 64, 100), model.NoteEvent{Note: 43, Velocity: 100, On: true}, true},
		{"note off", gomidi.NoteOff(3, 64), model.NoteEvent{Note: 43}, true},
		{"note on without velocity", gomidi.NoteOn(0, 64, 0), model.NoteEvent{Note: 43}, true},
		{"control change", gomidi.ControlChange(0, 64, 127), model.NoteEvent{}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			evt, ok := Translate(c.msg, constants.MidiLowA)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.evt, evt)
		})
	}
}

func TestNoteID(t *testing.T) {
	assert.Equal(t, 0, NoteID(21, constants.MidiLowA))
	assert.Equal(t, -1, NoteID(20, constants.MidiLowA))
	assert.Equal(t, 60, NoteID(60, 0))
}

package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jsphweid/chordlight/chord"
	"github.com/jsphweid/chordlight/model"
	"github.com/jsphweid/chordlight/palette"
	"github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"
)

type Options struct {
	Dictionary *chord.Dictionary
	Generator  palette.Generator
	Lights     int
	Policy     Policy
	Bridge     Lights
	Display    Display
}

type Result struct {
	Label     string
	Colors    []colorful.Color
	Intensity float64
}

type Snapshot struct {
	ID      string
	Playing bool
	Held    model.Notes
	// Intensity is only meaningful while a note is held.
	Intensity    float64
	HasIntensity bool
	// Colors of every chord played so far, keyed by label.
	Colors map[string][]colorful.Color
	Played []string
}

// Session owns all playing state for one run. Events are applied one at a
// time in arrival order; the mutex only lets readers such as the HTTP API
// look at state while MIDI events are being delivered.
type Session struct {
	ID uuid.UUID

	mu         sync.Mutex
	playing    bool
	keys       *KeyState
	velocities *Velocities
	resolver   *chord.Resolver
	colors     *ColorStore
	emitter    *Emitter
	display    Display
	played     []string
	playedSet  map[string]bool
	logger     *log.Entry
}

func New(opts Options) *Session {
	if opts.Lights < 1 {
		opts.Lights = 1
	}
	if opts.Policy == "" {
		opts.Policy = ReleaseOldest
	}

	id := uuid.New()
	colors := NewColorStore(opts.Generator, opts.Lights)
	// every known chord gets its colors up front
	colors.Warm(opts.Dictionary.Labels())

	emitter := NewEmitter(colors, opts.Bridge, opts.Display)
	return &Session{
		ID:         id,
		keys:       NewKeyState(),
		velocities: NewVelocities(opts.Policy),
		resolver:   chord.NewResolver(opts.Dictionary),
		colors:     colors,
		emitter:    emitter,
		display:    emitter.display,
		playedSet:  make(map[string]bool),
		logger:     log.WithFields(log.Fields{"session": id.String()}),
	}
}

func (s *Session) Handle(evt model.NoteEvent) (Result, bool) {
	if evt.On {
		return s.NoteOn(evt.Note, evt.Velocity)
	}
	s.NoteOff(evt.Note)
	return Result{}, false
}

// NoteOn holds the note and, when the held notes form a chord, sends exactly
// one light update for it.
func (s *Session) NoteOn(note int, velocity uint8) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing {
		s.playing = true
		s.display.Start()
		s.logger.Info("first note, playing")
	}

	if s.keys.NoteOn(note) {
		s.velocities.Record(note, velocity)
	} else {
		s.velocities.Refresh(note, velocity)
	}

	label, ok := s.resolver.Resolve(s.keys.Notes())
	if !ok {
		return Result{}, false
	}

	intensity, err := s.velocities.AverageIntensity()
	if err != nil {
		s.logger.WithError(err).Warn("chord without velocities, not emitting")
		return Result{}, false
	}

	if !s.playedSet[label] {
		s.playedSet[label] = true
		s.played = append(s.played, label)
	}
	colors := s.emitter.Emit(label, intensity)

	s.logger.WithFields(log.Fields{
		"chord":     label,
		"intensity": intensity,
		"colors":    palette.Hex(colors),
	}).Debug("chord")

	return Result{Label: label, Colors: colors, Intensity: intensity}, true
}

// NoteOff releases the note and one velocity. It never emits.
func (s *Session) NoteOff(note int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.keys.NoteOff(note) {
		s.logger.WithField("note", note).Debug("note off for unpressed note")
		return
	}
	s.velocities.NoteReleased(note)
}

func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *Session) Resolver() *chord.Resolver {
	return s.resolver
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:      s.ID.String(),
		Playing: s.playing,
		Held:    s.keys.Notes(),
		Colors:  make(map[string][]colorful.Color, len(s.played)),
		Played:  append([]string(nil), s.played...),
	}
	if intensity, err := s.velocities.AverageIntensity(); err == nil {
		snap.Intensity = intensity
		snap.HasIntensity = true
	}
	for _, label := range s.played {
		snap.Colors[label] = s.colors.ColorsFor(label)
	}
	return snap
}

package session

import (
	"github.com/jsphweid/chordlight/constants"
	"github.com/jsphweid/chordlight/util"
	"github.com/pkg/errors"
)

var ErrNoVelocities = errors.New("no velocities tracked")

// Policy decides which velocity a note-off releases.
type Policy string

const (
	// ReleaseOldest drops the earliest recorded velocity whichever note was
	// released. Notes let go out of press order leave the wrong velocities
	// behind, but the count still follows the held notes.
	ReleaseOldest Policy = "oldest"
	// ReleasePerNote drops the velocity recorded for the released note.
	ReleasePerNote Policy = "per-note"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", ReleaseOldest:
		return ReleaseOldest, nil
	case ReleasePerNote:
		return ReleasePerNote, nil
	}
	return "", errors.Errorf("unknown velocity policy %q (want %q or %q)", s, ReleaseOldest, ReleasePerNote)
}

type velocity struct {
	note  int
	value uint8
}

// Velocities holds the velocities of held notes in press order.
type Velocities struct {
	policy  Policy
	entries []velocity
}

func NewVelocities(policy Policy) *Velocities {
	return &Velocities{policy: policy}
}

func (v *Velocities) Policy() Policy {
	return v.policy
}

// Record appends to the tail. Under ReleasePerNote a re-pressed note replaces
// its earlier velocity instead of adding a second one.
func (v *Velocities) Record(note int, value uint8) {
	if v.policy == ReleasePerNote {
		v.Release(note)
	}
	v.entries = append(v.entries, velocity{note: note, value: value})
}

// Refresh overwrites the velocity tracked for a note that is struck again
// while held. The count never changes, so it keeps following the held notes.
func (v *Velocities) Refresh(note int, value uint8) {
	for i := range v.entries {
		if v.entries[i].note == note {
			v.entries[i].value = value
			return
		}
	}
}

// NoteReleased drops one velocity according to the policy.
func (v *Velocities) NoteReleased(note int) {
	if v.policy == ReleasePerNote {
		v.Release(note)
		return
	}
	v.ReleaseOldest()
}

func (v *Velocities) ReleaseOldest() {
	if len(v.entries) == 0 {
		return
	}
	v.entries = v.entries[1:]
}

// Release drops the oldest velocity recorded for note, if any.
func (v *Velocities) Release(note int) {
	for i, e := range v.entries {
		if e.note == note {
			v.entries = append(v.entries[:i:i], v.entries[i+1:]...)
			return
		}
	}
}

func (v *Velocities) Len() int {
	return len(v.entries)
}

// AverageIntensity is the mean tracked velocity over MaxRawVelocity, in [0,1].
func (v *Velocities) AverageIntensity() (float64, error) {
	if len(v.entries) == 0 {
		return 0, ErrNoVelocities
	}
	values := make([]uint8, len(v.entries))
	for i, e := range v.entries {
		values[i] = e.value
	}
	intensity := util.Mean(values) / constants.MaxRawVelocity
	if intensity > 1 {
		intensity = 1
	}
	return intensity, nil
}

package model

// Notes are note ids relative to the lowest key of the instrument.
type Notes = []int

// Fingerprint is an ascending, duplicate-free list of pitch classes.
type Fingerprint []int

type Definition struct {
	Fingerprint Fingerprint
	// Names in insertion order. More than one name means shapes collided.
	Names []string
}

// Name is the display name used for a fingerprint: the first inserted one.
func (d Definition) Name() string {
	if len(d.Names) == 0 {
		return ""
	}
	return d.Names[0]
}

type NoteEvent struct {
	Note     int
	Velocity uint8
	On       bool
}

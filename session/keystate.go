package session

import (
	"github.com/jsphweid/chordlight/model"
	"github.com/jsphweid/chordlight/util"
)

// KeyState is the set of currently depressed note ids.
type KeyState struct {
	held map[int]bool
}

func NewKeyState() *KeyState {
	return &KeyState{held: make(map[int]bool)}
}

// NoteOn reports whether the note was newly pressed.
func (k *KeyState) NoteOn(note int) bool {
	if k.held[note] {
		return false
	}
	k.held[note] = true
	return true
}

// NoteOff reports whether the note was held.
func (k *KeyState) NoteOff(note int) bool {
	if !k.held[note] {
		return false
	}
	delete(k.held, note)
	return true
}

func (k *KeyState) Holds(note int) bool {
	return k.held[note]
}

// Notes returns a sorted copy of the held notes.
func (k *KeyState) Notes() model.Notes {
	return util.SortedKeys(k.held)
}

func (k *KeyState) Len() int {
	return len(k.held)
}

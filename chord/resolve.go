package chord

import (
	"github.com/jsphweid/chordlight/constants"
	"github.com/jsphweid/chordlight/model"
)

type Resolver struct {
	dict *Dictionary
}

func NewResolver(dict *Dictionary) *Resolver {
	return &Resolver{dict: dict}
}

func (r *Resolver) Dictionary() *Dictionary {
	return r.dict
}

// Resolve names the chord formed by the held notes. It reports false when
// fewer than MinChordSize notes are held, or when octave duplicates collapse
// the notes below that size. Shapes missing from the dictionary are labelled
// by their chord key, so every qualifying note set gets a stable label.
func (r *Resolver) Resolve(held model.Notes) (string, bool) {
	if len(held) < constants.MinChordSize {
		return "", false
	}

	fp := Normalize(held)
	if len(fp) < constants.MinChordSize {
		return "", false
	}

	if def, ok := r.dict.Lookup(fp); ok {
		return def.Name(), true
	}
	return CreateChordKey(fp), true
}

package chord

import (
	"github.com/jsphweid/chordlight/constants"
	"github.com/jsphweid/chordlight/model"
	"github.com/jsphweid/chordlight/util"
)

type Shape struct {
	Label   string
	Offsets []int
}

// Shapes are generated for every root in this order. The order decides which
// name wins when two shapes land on the same fingerprint.
var Shapes = []Shape{
	{Label: "major", Offsets: []int{0, 4, 7}},
	{Label: "major seventh", Offsets: []int{0, 4, 7, 11}},
	{Label: "minor", Offsets: []int{0, 3, 7}},
	{Label: "minor seventh", Offsets: []int{0, 3, 7, 10}},
	{Label: "diminished", Offsets: []int{0, 3, 6}},
	{Label: "diminished 9", Offsets: []int{0, 3, 6, 9}},
	{Label: "augmented", Offsets: []int{0, 4, 8}},
	{Label: "dominant seventh", Offsets: []int{0, 4, 7, 10}},
	{Label: "major sixth", Offsets: []int{0, 4, 7, 9}},
	{Label: "minor sixth", Offsets: []int{0, 3, 7, 9}},
}

var noteNames = [constants.PitchClasses]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

type RootNames = [constants.PitchClasses]string

// RootNamesFrom names pitch class 0 after the MIDI key note ids are offset
// against. MidiLowA gives A, A#, B, C...; any C gives C, C#, D...
func RootNamesFrom(lowKey int) RootNames {
	var names RootNames
	for i := range names {
		names[i] = noteNames[util.Mod(lowKey+i, constants.PitchClasses)]
	}
	return names
}

type Dictionary struct {
	definitions map[string]*model.Definition
	// fingerprint keys in first-insertion order
	order []string
}

func NewDictionary(rootNames RootNames) *Dictionary {
	d := &Dictionary{definitions: make(map[string]*model.Definition)}
	for root := 0; root < constants.PitchClasses; root++ {
		for _, shape := range Shapes {
			fp, name := generateChord(root, shape, rootNames[root])
			d.add(fp, name)
		}
	}
	return d
}

func generateChord(root int, shape Shape, rootName string) (model.Fingerprint, string) {
	notes := make(model.Notes, len(shape.Offsets))
	for i, offset := range shape.Offsets {
		notes[i] = root + offset
	}
	return Normalize(notes), rootName + " " + shape.Label
}

func (d *Dictionary) add(fp model.Fingerprint, name string) {
	key := CreateChordKey(fp)
	if def, ok := d.definitions[key]; ok {
		def.Names = append(def.Names, name)
		return
	}
	d.definitions[key] = &model.Definition{Fingerprint: fp, Names: []string{name}}
	d.order = append(d.order, key)
}

func (d *Dictionary) Lookup(fp model.Fingerprint) (model.Definition, bool) {
	def, ok := d.definitions[CreateChordKey(fp)]
	if !ok {
		return model.Definition{}, false
	}
	return copyDefinition(def), true
}

// Definitions returns every fingerprint with all of its names.
func (d *Dictionary) Definitions() []model.Definition {
	res := make([]model.Definition, 0, len(d.order))
	for _, key := range d.order {
		res = append(res, copyDefinition(d.definitions[key]))
	}
	return res
}

// Labels returns the display name of each fingerprint.
func (d *Dictionary) Labels() []string {
	res := make([]string, 0, len(d.order))
	for _, key := range d.order {
		res = append(res, d.definitions[key].Name())
	}
	return res
}

// Len counts distinct fingerprints, not names.
func (d *Dictionary) Len() int {
	return len(d.order)
}

func copyDefinition(def *model.Definition) model.Definition {
	return model.Definition{
		Fingerprint: append(model.Fingerprint(nil), def.Fingerprint...),
		Names:       append([]string(nil), def.Names...),
	}
}

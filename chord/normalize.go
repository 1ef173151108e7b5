package chord

import (
	"strconv"
	"strings"

	"github.com/jsphweid/chordlight/constants"
	"github.com/jsphweid/chordlight/model"
	"github.com/jsphweid/chordlight/util"
)

// Normalize reduces notes to their pitch classes, drops duplicates and sorts
// ascending. Octave spread and input order never change the result.
func Normalize(notes model.Notes) model.Fingerprint {
	classes := make(map[int]bool, len(notes))
	for _, note := range notes {
		classes[util.Mod(note, constants.PitchClasses)] = true
	}
	return model.Fingerprint(util.SortedKeys(classes))
}

func CreateChordKey(fp model.Fingerprint) string {
	parts := make([]string, len(fp))
	for i, pc := range fp {
		parts[i] = strconv.Itoa(pc)
	}
	return strings.Join(parts, constants.FingerprintSeparator)
}

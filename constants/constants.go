package constants

import "os"

// MidiLowA is the MIDI number of the lowest key on an 88-key piano.
// Note ids handed to the session are offset against it.
const MidiLowA = 21

const MinChordSize = 3

const MaxRawVelocity = 127

const PitchClasses = 12

// FingerprintSeparator joins pitch classes in chord keys and fallback labels.
const FingerprintSeparator = "-"

func GetConfigPath() string {
	path := os.Getenv("CHORDLIGHT_CONFIG")
	if path != "" {
		return path
	}
	return "./chordlight.yaml"
}

func GetBridgeURL() string {
	return os.Getenv("CHORDLIGHT_BRIDGE_URL")
}

func GetBridgeUser() string {
	return os.Getenv("CHORDLIGHT_BRIDGE_USER")
}

func GetMidiPort() string {
	return os.Getenv("CHORDLIGHT_MIDI_PORT")
}

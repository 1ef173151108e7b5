package model

// BridgeColor is a color in the lighting bridge's CIE xy space.
type BridgeColor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type MidiMetadata struct {
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Release string `json:"release"`
	Year    uint   `json:"year"`
}

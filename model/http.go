package model

type DefinitionResponse struct {
	Fingerprint Fingerprint `json:"fingerprint"`
	Key         string      `json:"key"`
	Names       []string    `json:"names"`
}

type NoteRequestBody struct {
	Note     int   `json:"note"`
	Velocity uint8 `json:"velocity"`
	On       bool  `json:"on"`
}

type NoteResponse struct {
	Chord  string   `json:"chord,omitempty"`
	Colors []string `json:"colors,omitempty"`
	Fired  bool     `json:"fired"`
}

type SessionResponse struct {
	ID        string              `json:"id"`
	Playing   bool                `json:"playing"`
	Held      Notes               `json:"held"`
	Intensity *float64            `json:"intensity,omitempty"`
	Colors    map[string][]string `json:"colors"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

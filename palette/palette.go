package palette

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"

	"github.com/jsphweid/chordlight/model"
	"github.com/lucasb-eyer/go-colorful"
)

// Generator supplies the color pattern for a chord label, one color per light.
type Generator interface {
	Colors(label string, n int) []colorful.Color
}

// Seeded draws colors from a random stream keyed by the session seed and the
// label, so a label gets the same colors for a given seed no matter when or
// in which order it is first seen.
type Seeded struct {
	seed int64
}

func NewSeeded(seed int64) *Seeded {
	return &Seeded{seed: seed}
}

func (s *Seeded) Seed() int64 {
	return s.seed
}

func (s *Seeded) Colors(label string, n int) []colorful.Color {
	rng := rand.New(rand.NewSource(s.labelSeed(label)))
	colors := make([]colorful.Color, n)
	for i := range colors {
		colors[i] = RandomColor(rng)
	}
	return colors
}

func (s *Seeded) labelSeed(label string) int64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(s.seed))
	h.Write(buf[:])
	h.Write([]byte(label))
	return int64(h.Sum64())
}

// RandomColor picks any hue, kept saturated and bright enough to read on a
// bulb. Brightness on the lights comes from playing velocity instead.
func RandomColor(rng *rand.Rand) colorful.Color {
	return colorful.Hsv(rng.Float64()*360, 0.5+rng.Float64()*0.5, 0.6+rng.Float64()*0.4)
}

// ToBridgeColor converts to the CIE xy pair lighting bridges address colors by.
func ToBridgeColor(c colorful.Color) model.BridgeColor {
	x, y, _ := c.Clamped().Xyy()
	return model.BridgeColor{X: x, Y: y}
}

func Hex(colors []colorful.Color) []string {
	res := make([]string, len(colors))
	for i, c := range colors {
		res[i] = c.Hex()
	}
	return res
}

package util

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"b": 1, "c": 2, "a": 3}
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(m))
}

func TestSumAndMean(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint64(254), Sum([]uint8{127, 127}))
	assert.Equal(63.5, Mean([]uint8{0, 127}))
	assert.True(math.IsNaN(Mean([]uint8{})))
	assert.Equal(uint8(3), Min(uint8(3), uint8(9)))
}

func TestModWrapsNegatives(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0, Mod(12, 12))
	assert.Equal(7, Mod(43, 12))
	assert.Equal(9, Mod(-3, 12))
}

func TestGatherAllMidiPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mid", "a.midi", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.mid"), []byte{}, 0644))

	paths, err := GatherAllMidiPaths(dir, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.midi"),
		filepath.Join(dir, "b.mid"),
		filepath.Join(dir, "sub", "c.mid"),
	}, paths)

	limited, err := GatherAllMidiPaths(dir, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

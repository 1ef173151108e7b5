package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsphweid/chordlight/config"
	"github.com/jsphweid/chordlight/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postNote(t *testing.T, h http.Handler, note int, velocity uint8, on bool) model.NoteResponse {
	body, err := json.Marshal(model.NoteRequestBody{Note: note, Velocity: velocity, On: on})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/notes", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.NoteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func TestPostNotesFiresChord(t *testing.T) {
	useConfig(t, func(c *config.Config) { c.Lights = 2 })
	assert := assert.New(t)
	h := NewRouter(newSession(nil, nil), nil)

	assert.False(postNote(t, h, 0, 127, true).Fired)
	assert.False(postNote(t, h, 4, 127, true).Fired)
	res := postNote(t, h, 7, 127, true)
	assert.True(res.Fired)
	assert.Equal("A major", res.Chord)
	assert.Len(res.Colors, 2)

	off := postNote(t, h, 7, 0, false)
	assert.False(off.Fired)
	assert.Empty(off.Chord)
}

func TestPostNotesRejectsBadJSON(t *testing.T) {
	useConfig(t, nil)
	h := NewRouter(newSession(nil, nil), nil)

	req := httptest.NewRequest("POST", "/notes", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var res model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Contains(t, res.Error, "Could not decode note")
}

func TestGetSession(t *testing.T) {
	useConfig(t, nil)
	assert := assert.New(t)
	sess := newSession(nil, nil)
	h := NewRouter(sess, nil)

	get := func() model.SessionResponse {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/session", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var res model.SessionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		return res
	}

	res := get()
	assert.Equal(sess.ID.String(), res.ID)
	assert.False(res.Playing)
	assert.Empty(res.Held)
	assert.Nil(res.Intensity)

	postNote(t, h, 3, 127, true)
	res = get()
	assert.True(res.Playing)
	assert.Equal(model.Notes{3}, res.Held)
	require.NotNil(t, res.Intensity)
	assert.InDelta(1.0, *res.Intensity, 1e-9)
	assert.Empty(res.Colors)

	postNote(t, h, 7, 127, true)
	postNote(t, h, 10, 127, true)
	res = get()
	assert.Equal(model.Notes{3, 7, 10}, res.Held)
	assert.Len(res.Colors, 1)
	assert.Len(res.Colors["C major"], 1)
}

func TestGetChords(t *testing.T) {
	useConfig(t, nil)
	h := NewRouter(newSession(nil, nil), nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/chords", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var defs []model.DefinitionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&defs))
	assert.Len(t, defs, 91)
	assert.Equal(t, "0-4-7", defs[0].Key)
	assert.Equal(t, []string{"A major"}, defs[0].Names)
}

func TestRouterUsesDeliver(t *testing.T) {
	useConfig(t, nil)
	sess := newSession(nil, nil)
	p := newPlayer(sess, 0)
	h := NewRouter(sess, p.play)

	postNote(t, h, 0, 60, true)
	postNote(t, h, 0, 0, false)
	assert.Equal(t, 2, p.events)
	assert.Empty(t, sess.Snapshot().Held)
}

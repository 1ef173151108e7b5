package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jsphweid/chordlight/chord"
	"github.com/jsphweid/chordlight/display"
	"github.com/jsphweid/chordlight/midi"
	"github.com/jsphweid/chordlight/model"
	"github.com/jsphweid/chordlight/palette"
	"github.com/jsphweid/chordlight/session"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var withMidi bool

func init() {
	serveCmd.Flags().BoolVar(&withMidi, "midi", true, "also listen to the MIDI input")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs a session behind an HTTP API",
	Long: `Runs a session behind an HTTP API. Notes arrive from the MIDI input and
from POST /notes; GET /session and GET /chords report state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	bridge, err := newBridge(ctx)
	if err != nil {
		return err
	}
	sess := newSession(bridge, display.NewTerminal(os.Stdout))
	p := newPlayer(sess, cfg.IdleAfter)

	if withMidi {
		defer midi.CloseDriver()
		in, err := midi.FindInPort(cfg.Midi.Port)
		if err != nil {
			return errors.Wrap(err, "opening MIDI input")
		}
		stopListening, err := midi.Listen(in, cfg.LowKey, p.handle)
		if err != nil {
			return errors.Wrapf(err, "listening to %s", in.String())
		}
		defer stopListening()
		log.WithField("port", in.String()).Info("listening")
	}

	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: NewRouter(sess, p.play)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", cfg.HTTP.Addr).Info("serving")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "serving")
	}
	if bridge != nil {
		bridge.Wait()
	}
	return nil
}

type api struct {
	session *session.Session
	deliver func(model.NoteEvent) (session.Result, bool)
}

// NewRouter exposes sess over HTTP. Posted notes go to deliver, which must
// hand them on to sess; nil delivers straight to sess.
func NewRouter(sess *session.Session, deliver func(model.NoteEvent) (session.Result, bool)) http.Handler {
	if deliver == nil {
		deliver = sess.Handle
	}
	a := &api{session: sess, deliver: deliver}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/chords", a.handleChords).Methods("GET")
	router.HandleFunc("/session", a.handleSession).Methods("GET")
	router.HandleFunc("/notes", a.handleNote).Methods("POST")
	return cors.Default().Handler(router)
}

func (a *api) handleChords(w http.ResponseWriter, r *http.Request) {
	defs := a.session.Resolver().Dictionary().Definitions()
	res := make([]model.DefinitionResponse, 0, len(defs))
	for _, def := range defs {
		res = append(res, model.DefinitionResponse{
			Fingerprint: def.Fingerprint,
			Key:         chord.CreateChordKey(def.Fingerprint),
			Names:       def.Names,
		})
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *api) handleSession(w http.ResponseWriter, r *http.Request) {
	snap := a.session.Snapshot()
	res := model.SessionResponse{
		ID:      snap.ID,
		Playing: snap.Playing,
		Held:    snap.Held,
		Colors:  make(map[string][]string, len(snap.Colors)),
	}
	if snap.HasIntensity {
		intensity := snap.Intensity
		res.Intensity = &intensity
	}
	for label, colors := range snap.Colors {
		res.Colors[label] = palette.Hex(colors)
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *api) handleNote(w http.ResponseWriter, r *http.Request) {
	var input model.NoteRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Could not decode note: "+err.Error())
		return
	}

	evt := model.NoteEvent{Note: input.Note, Velocity: input.Velocity, On: input.On}
	res, fired := a.deliver(evt)

	out := model.NoteResponse{Fired: fired}
	if fired {
		out.Chord = res.Label
		out.Colors = palette.Hex(res.Colors)
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("writing response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

package cmd

import (
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/chordlight/model"
	"github.com/jsphweid/chordlight/session"
	log "github.com/sirupsen/logrus"
)

// player feeds note events into a session and logs a summary whenever the
// keyboard has been quiet for a while.
type player struct {
	session *session.Session
	idle    func(f func())

	mu     sync.Mutex
	events int
}

func newPlayer(s *session.Session, idleAfter time.Duration) *player {
	p := &player{session: s}
	if idleAfter > 0 {
		p.idle = debounce.New(idleAfter)
	}
	return p
}

func (p *player) handle(evt model.NoteEvent) {
	p.play(evt)
}

func (p *player) play(evt model.NoteEvent) (session.Result, bool) {
	res, fired := p.session.Handle(evt)

	p.mu.Lock()
	p.events++
	p.mu.Unlock()

	if p.idle != nil {
		p.idle(p.summarize)
	}
	return res, fired
}

func (p *player) summarize() {
	p.mu.Lock()
	events := p.events
	p.mu.Unlock()

	snap := p.session.Snapshot()
	log.WithFields(log.Fields{
		"session": snap.ID,
		"events":  events,
		"chords":  len(snap.Played),
		"held":    len(snap.Held),
	}).Info("idle")
}

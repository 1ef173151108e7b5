package cmd

import (
	"context"

	"github.com/jsphweid/chordlight/chord"
	"github.com/jsphweid/chordlight/hue"
	"github.com/jsphweid/chordlight/palette"
	"github.com/jsphweid/chordlight/session"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func newDictionary() *chord.Dictionary {
	return chord.NewDictionary(chord.RootNamesFrom(cfg.LowKey))
}

// newBridge returns nil when no bridge is configured.
func newBridge(ctx context.Context) (*hue.Client, error) {
	if cfg.Bridge.URL == "" {
		log.Warn("no bridge configured, lights stay dark")
		return nil, nil
	}
	client := hue.NewClient(hue.Options{
		URL:            cfg.Bridge.URL,
		User:           cfg.Bridge.User,
		LightIDs:       cfg.Bridge.LightIDs,
		TransitionTime: cfg.Bridge.TransitionTime,
	})
	if _, err := client.Discover(ctx); err != nil {
		return nil, errors.Wrap(err, "finding lights")
	}
	return client, nil
}

func newSession(bridge *hue.Client, display session.Display) *session.Session {
	n := cfg.Lights
	if n == 0 && bridge != nil {
		n = len(bridge.LightIDs())
	}
	if n == 0 {
		n = 1
	}

	var lights session.Lights
	if bridge != nil {
		lights = bridge
	}

	seed := cfg.SeedOrNow()
	s := session.New(session.Options{
		Dictionary: newDictionary(),
		Generator:  palette.NewSeeded(seed),
		Lights:     n,
		Policy:     cfg.Policy(),
		Bridge:     lights,
		Display:    display,
	})
	log.WithFields(log.Fields{
		"session": s.ID.String(),
		"seed":    seed,
		"lights":  n,
		"policy":  cfg.Policy(),
	}).Info("session started")
	return s
}

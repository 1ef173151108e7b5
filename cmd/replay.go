package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jsphweid/chordlight/db"
	"github.com/jsphweid/chordlight/display"
	"github.com/jsphweid/chordlight/midi"
	"github.com/jsphweid/chordlight/model"
	"github.com/jsphweid/chordlight/util"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	pace     bool
	maxFiles int
)

func init() {
	replayCmd.Flags().BoolVar(&pace, "pace", true, "play events at their recorded times")
	replayCmd.Flags().IntVar(&maxFiles, "max", 0, "replay at most this many files from a directory (0 for all)")
	rootCmd.AddCommand(replayCmd)
}

var replayCmd = &cobra.Command{
	Use:   "replay <file-or-dir>",
	Short: "Lights up the chords of MIDI files",
	Long:  `Feeds the notes of a MIDI file, or every MIDI file under a directory, through a session as if they were played live.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return replay(ctx, args[0])
	},
}

func replay(ctx context.Context, root string) error {
	paths, names, err := replayPaths(root)
	if err != nil {
		return err
	}

	bridge, err := newBridge(ctx)
	if err != nil {
		return err
	}
	p := newPlayer(newSession(bridge, display.NewTerminal(os.Stdout)), 0)
	metadatas := lookupMetadata(ctx, names)

	for i, path := range paths {
		logger := log.WithFields(log.Fields{"file": names[i]})
		if meta, ok := metadatas[names[i]]; ok {
			logger = logger.WithFields(log.Fields{"title": meta.Title, "artist": meta.Artist})
		}

		parsed, err := midi.ReadMidiFile(path)
		if err != nil {
			logger.WithError(err).Warn("skipping")
			continue
		}

		logger.Infof("replaying %v of %v", i+1, len(paths))
		if err := midi.Replay(ctx, midi.NoteEvents(parsed), cfg.LowKey, pace, p.handle); err != nil {
			return err
		}
	}

	p.summarize()
	if bridge != nil {
		bridge.Wait()
	}
	return nil
}

// replayPaths returns the files to replay and their names relative to root,
// which is how the metadata table keys them.
func replayPaths(root string) ([]string, []string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, errors.Wrap(err, "replay")
	}
	if !info.IsDir() {
		return []string{root}, []string{filepath.Base(root)}, nil
	}

	paths, err := util.GatherAllMidiPaths(root, maxFiles)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "walking %s", root)
	}
	if len(paths) == 0 {
		return nil, nil, errors.Errorf("no MIDI files under %s", root)
	}
	names := make([]string, len(paths))
	for i, path := range paths {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		names[i] = filepath.ToSlash(rel)
	}
	return paths, names, nil
}

// lookupMetadata is best effort: replays go ahead without it.
func lookupMetadata(ctx context.Context, names []string) map[string]model.MidiMetadata {
	if cfg.Metadata.Endpoint == "" {
		return nil
	}
	store, err := db.NewMetadataStore(cfg.Metadata.Endpoint, cfg.Metadata.Region, cfg.Metadata.Table)
	if err != nil {
		log.WithError(err).Warn("metadata unavailable")
		return nil
	}
	res, err := store.GetMidiMetadatas(ctx, names)
	if err != nil {
		log.WithError(err).Warn("metadata unavailable")
		return nil
	}
	return res
}

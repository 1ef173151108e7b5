package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jsphweid/chordlight/chord"
	"github.com/jsphweid/chordlight/midi"
	"github.com/jsphweid/chordlight/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var midiKeys bool

func init() {
	inspectCmd.Flags().BoolVar(&midiKeys, "midi", false, "treat arguments as MIDI keys instead of note ids")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <note> <note> <note>...",
	Short: "Names the chord formed by a set of notes",
	Long:  `Names the chord formed by a set of notes, the way a live session would.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, err := parseNotes(args, midiKeys)
		if err != nil {
			return err
		}
		inspect(cmd.OutOrStdout(), chord.NewResolver(newDictionary()), notes)
		return nil
	},
}

func parseNotes(args []string, fromMidi bool) (model.Notes, error) {
	notes := make(model.Notes, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, errors.Errorf("%q is not a note", arg)
		}
		if fromMidi {
			if n < 0 || n > 127 {
				return nil, errors.Errorf("%d is not a MIDI key", n)
			}
			n = midi.NoteID(uint8(n), cfg.LowKey)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func inspect(w io.Writer, r *chord.Resolver, notes model.Notes) {
	fp := chord.Normalize(notes)
	fmt.Fprintf(w, "notes:       %v\n", notes)
	fmt.Fprintf(w, "fingerprint: %s\n", chord.CreateChordKey(fp))

	label, ok := r.Resolve(notes)
	if !ok {
		fmt.Fprintln(w, "chord:       none (fewer than 3 pitch classes)")
		return
	}
	fmt.Fprintf(w, "chord:       %s\n", label)
	if def, found := r.Dictionary().Lookup(fp); found && len(def.Names) > 1 {
		fmt.Fprintf(w, "also:        %s\n", strings.Join(def.Names[1:], ", "))
	}
}

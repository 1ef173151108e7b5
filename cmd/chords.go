package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/chordlight/chord"
	"github.com/jsphweid/chordlight/display"
	"github.com/jsphweid/chordlight/palette"
	"github.com/spf13/cobra"
)

var showColors bool

func init() {
	chordsCmd.Flags().BoolVar(&showColors, "colors", false, "show the colors each chord gets for --seed")
	rootCmd.AddCommand(chordsCmd)
}

var chordsCmd = &cobra.Command{
	Use:   "chords",
	Short: "Lists every chord the dictionary knows",
	Long:  `Lists every chord fingerprint the dictionary knows, with all names that share it.`,
	Run: func(cmd *cobra.Command, args []string) {
		var gen palette.Generator
		if showColors {
			gen = palette.NewSeeded(cfg.SeedOrNow())
		}
		listChords(cmd.OutOrStdout(), newDictionary(), gen)
	},
}

func listChords(w io.Writer, dict *chord.Dictionary, gen palette.Generator) {
	for _, def := range dict.Definitions() {
		line := fmt.Sprintf("%-9s %s", chord.CreateChordKey(def.Fingerprint), strings.Join(def.Names, " / "))
		if gen != nil {
			line += " " + display.Swatch(def.Name(), gen.Colors(def.Name(), 1)[0])
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%d fingerprints\n", dict.Len())
}

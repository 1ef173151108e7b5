package cmd

import (
	"github.com/jsphweid/chordlight/config"
	"github.com/jsphweid/chordlight/constants"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	verbose bool
	seed    int64
	lights  int
	lowKey  int

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "chordlight",
	Short: "Lights that follow the chords you play",
	Long: `chordlight listens to a MIDI piano, names the chord being held and paints
networked lights in a color pattern that belongs to that chord for as long
as the program runs. Playing harder makes the lights brighter.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("seed") {
			loaded.Seed = seed
		}
		if flags.Changed("lights") {
			loaded.Lights = lights
		}
		if flags.Changed("low-key") {
			loaded.LowKey = lowKey
		}
		if err := loaded.Validate(); err != nil {
			return errors.Wrap(err, "invalid config")
		}
		cfg = loaded
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgPath, "config", constants.GetConfigPath(), "path to the YAML config file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log every chord")
	flags.Int64Var(&seed, "seed", 0, "seed for chord colors (0 picks one from the clock)")
	flags.IntVar(&lights, "lights", 0, "colors per chord (0 counts the bridge's color lights)")
	flags.IntVar(&lowKey, "low-key", constants.MidiLowA, "MIDI key that becomes note 0")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

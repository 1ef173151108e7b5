package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsphweid/chordlight/display"
	"github.com/jsphweid/chordlight/midi"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var listPorts bool

func init() {
	listenCmd.Flags().BoolVar(&listPorts, "ports", false, "list MIDI inputs and exit")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Lights up chords played on a MIDI input",
	Long:  `Lights up chords played on a MIDI input until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer midi.CloseDriver()
		if listPorts {
			for i, name := range midi.InPorts() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i, name)
			}
			return nil
		}
		return listen(cmd.Context())
	},
}

func listen(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	bridge, err := newBridge(ctx)
	if err != nil {
		return err
	}

	term := display.NewTerminal(os.Stdout)
	p := newPlayer(newSession(bridge, term), cfg.IdleAfter)

	in, err := midi.FindInPort(cfg.Midi.Port)
	if err != nil {
		return errors.Wrap(err, "opening MIDI input")
	}
	log.WithField("port", in.String()).Info("listening")
	// prompt before the first note can arrive so Start always clears it
	term.Prompt()
	stopListening, err := midi.Listen(in, cfg.LowKey, p.handle)
	if err != nil {
		return errors.Wrapf(err, "listening to %s", in.String())
	}
	defer stopListening()

	<-ctx.Done()
	if bridge != nil {
		bridge.Wait()
	}
	return nil
}

package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/pianolyze/midi"
)

var inspectCheck bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectCheck, "check", false, "cross-check the note count against the gomidi reader")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Dumps header, tempo map and diagnostics for a MIDI file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := inspect(args[0]); err != nil {
			logrus.Fatal(err)
		}
	},
}

func inspect(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	res, err := midi.Parse(data)
	if err != nil {
		return err
	}

	fmt.Printf("format: %d\n", res.Format)
	fmt.Printf("tracks: %d\n", res.NumTracks)
	fmt.Printf("division: %d ticks/quarter\n", res.Division)
	fmt.Printf("notes: %d\n", len(res.Notes))

	fmt.Println("tempo map:")
	for _, e := range res.TempoMap {
		bpm := 60e6 / float64(e.MicrosPerQuarter)
		fmt.Printf("  tick %-8d %d us/quarter (%.1f BPM)\n", e.Tick, e.MicrosPerQuarter, bpm)
	}

	for _, d := range res.Diagnostics {
		fmt.Printf("diagnostic: [%s] track %d tick %d: %s\n", d.Kind, d.Track, d.Tick, d.Message)
	}

	if inspectCheck {
		theirs, err := countGomidiNotes(data)
		if err != nil {
			return fmt.Errorf("gomidi cross-check failed: %w", err)
		}
		fmt.Printf("cross-check: pianolyze=%d gomidi=%d\n", len(res.Notes), theirs)
	}
	return nil
}

// countGomidiNotes re-reads the file with the gomidi smf reader and counts
// sounding note-ons, as an independent sanity check of our decoder.
func countGomidiNotes(data []byte) (count int, e error) {
	// gomidi panics on some malformed input
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = fmt.Errorf("%s", r)
		}
	}()

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	for _, track := range s.Tracks {
		for _, event := range track {
			var channel, key, velocity uint8
			if event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0 {
				count++
			}
		}
	}
	return count, nil
}

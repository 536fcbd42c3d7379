package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jsphweid/pianolyze/difficulty"
	"github.com/jsphweid/pianolyze/fingering"
	"github.com/jsphweid/pianolyze/midi"
)

func init() {
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <file.mid>",
	Short: "Parses a MIDI file and prints notes, fingering and difficulty",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := parseFile(args[0]); err != nil {
			logrus.Fatal(err)
		}
	},
}

func parseFile(path string) error {
	res, err := midi.ReadFile(path)
	if err != nil {
		return err
	}
	for _, d := range res.Diagnostics {
		logrus.Warnf("track %d tick %d: %s", d.Track, d.Tick, d.Message)
	}

	fingers := fingering.Assign(res.Notes)
	report := difficulty.Analyze(res.Notes)

	fmt.Printf("format %d, %d tracks, division %d\n\n", res.Format, res.NumTracks, res.Division)
	fmt.Printf("%-10s %-6s %-10s %-9s %-6s %s\n", "start(s)", "note", "dur(s)", "velocity", "hand", "finger")
	for i, n := range res.Notes {
		f := fingers[i]
		fmt.Printf("%-10.3f %-6s %-10.3f %-9d %-6s %d (%s)\n",
			n.StartSeconds, midi.NoteName(n.Pitch), n.DurationSeconds, n.Velocity, f.Hand, f.Finger, f.FingerName)
	}

	fmt.Printf("\ndifficulty: %s (score %d, span %d semitones, %d notes)\n",
		report.Level, report.Score, report.NoteSpan, report.TotalNotes)
	for _, factor := range report.Factors {
		fmt.Printf("  - %s\n", factor)
	}
	return nil
}

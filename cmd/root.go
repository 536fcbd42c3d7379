package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pianolyze",
	Short: "Derives notes, fingering and difficulty from MIDI files",
	Long:  `pianolyze decodes Standard MIDI Files into a timed note sequence and derives per-hand piano fingering and a difficulty rating.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jsphweid/pianolyze/difficulty"
	"github.com/jsphweid/pianolyze/midi"
	"github.com/jsphweid/pianolyze/model"
	"github.com/jsphweid/pianolyze/util"
)

func init() {
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan <dir> [max]",
	Short: "Rates every MIDI file under a directory",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var maxNum int
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				logrus.Fatal(err)
			}
			maxNum = n
		}
		scan(args[0], maxNum)
	},
}

func scan(dir string, maxNum int) {
	paths := util.GatherAllMidiPaths(dir, maxNum)
	byLevel := make(map[model.DifficultyLevel]int)
	for i, path := range paths {
		fmt.Printf("Processing %v of %v midi files\n", i+1, len(paths))
		res, err := midi.ReadFile(path)
		if err != nil {
			logrus.Warnf("skipping %v because: %v", path, err)
			continue
		}
		report := difficulty.Analyze(res.Notes)
		byLevel[report.Level]++
		fmt.Printf("  %s: %s (score %d, %d notes, %d diagnostics)\n",
			path, report.Level, report.Score, report.TotalNotes, len(res.Diagnostics))
	}

	fmt.Println("\nsummary:")
	for _, level := range util.SortedKeys(byLevel) {
		fmt.Printf("  %-12s %d\n", level, byLevel[level])
	}
}

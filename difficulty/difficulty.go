// Package difficulty scores a parsed note sequence on range, speed, and
// chord density. Thresholds live in piecewise tables rather than nested
// branches so each factor stays independently tunable.
package difficulty

import (
	"fmt"
	"math"

	"github.com/jsphweid/pianolyze/model"
)

// A band contributes points when the measured value crosses its threshold.
// Bands are checked in order and the first match wins.
type band struct {
	points int
	match  func(v float64) bool
	factor string
}

var spanBands = []band{
	{2, func(v float64) bool { return v > 36 }, "note span over three octaves"},
	{1, func(v float64) bool { return v > 24 }, "note span over two octaves"},
}

var speedBands = []band{
	{2, func(v float64) bool { return v < 0.25 }, "sixteenth notes or faster"},
	{1, func(v float64) bool { return v < 0.5 }, "eighth notes or faster"},
}

var chordBands = []band{
	{1, func(v float64) bool { return v > 0.3 }, "frequent chords"},
}

var levels = []struct {
	minScore int
	level    model.DifficultyLevel
}{
	{5, model.LevelAdvanced},
	{3, model.LevelIntermediate},
	{1, model.LevelBeginnerPlus},
	{0, model.LevelBeginner},
}

func score(bands []band, v float64) (int, string) {
	for _, b := range bands {
		if b.match(v) {
			return b.points, b.factor
		}
	}
	return 0, ""
}

// Analyze computes the difficulty report for a full note sequence. An empty
// sequence is a valid input and reports level Unknown.
func Analyze(notes []model.Note) model.DifficultyReport {
	if len(notes) == 0 {
		return model.DifficultyReport{Level: model.LevelUnknown}
	}

	minPitch, maxPitch := notes[0].Pitch, notes[0].Pitch
	minDuration := math.Inf(1)
	chordNotes := 0
	for _, n := range notes {
		if n.Pitch < minPitch {
			minPitch = n.Pitch
		}
		if n.Pitch > maxPitch {
			maxPitch = n.Pitch
		}
		if n.DurationQuarters < minDuration {
			minDuration = n.DurationQuarters
		}
		if n.ChordMember {
			chordNotes++
		}
	}

	report := model.DifficultyReport{
		NoteSpan:   int(maxPitch) - int(minPitch),
		TotalNotes: len(notes),
	}

	add := func(points int, factor string) {
		if points > 0 {
			report.Score += points
			report.Factors = append(report.Factors, factor)
		}
	}
	add(score(spanBands, float64(report.NoteSpan)))
	add(score(speedBands, minDuration))

	chordRatio := float64(chordNotes) / float64(len(notes))
	points, factor := score(chordBands, chordRatio)
	if points > 0 {
		factor = fmt.Sprintf("%s (%.0f%% of notes)", factor, chordRatio*100)
	}
	add(points, factor)

	for _, l := range levels {
		if report.Score >= l.minScore {
			report.Level = l.level
			break
		}
	}
	return report
}

// Package fingering assigns a piano finger to every note of a parsed
// sequence. The mapping is a pure function of (hand, pitch), expressed as
// pitch-class lookup tables so individual buckets can be tested and tuned
// without touching control flow.
package fingering

import (
	"sort"

	"github.com/jsphweid/pianolyze/model"
)

// rightHandTable maps pitch class (C=0 .. B=11) to finger for the right
// hand; leftHandTable is its mirror. 1 = thumb .. 5 = pinky.
var rightHandTable = [12]int{
	1, 1, // C, C#
	2, 2, // D, D#
	3, 3, // E, F
	4, 4, // F#, G
	5, 5, 5, 5, // G#, A, A#, B
}

var leftHandTable = [12]int{
	5, 5,
	4, 4,
	3, 3,
	2, 2,
	1, 1, 1, 1,
}

var fingerNames = [6]string{"", "thumb", "index", "middle", "ring", "pinky"}

// middleC splits the keyboard when no part information is available.
const middleC = 60

// FingerFor returns the finger a hand uses for a pitch.
func FingerFor(hand model.Hand, pitch uint8) int {
	class := int(pitch) % 12
	if hand == model.LeftHand {
		return leftHandTable[class]
	}
	return rightHandTable[class]
}

// FingerName returns the conventional name for a finger number.
func FingerName(finger int) string {
	if finger < 1 || finger > 5 {
		return ""
	}
	return fingerNames[finger]
}

// handFor picks the hand for a note. Files that declare separate parts get
// the declared split (part 0 is the right hand, part 1 the left, the way
// two-staff piano MIDI is laid out); everything else falls back to the
// middle C threshold.
func handFor(n model.Note, multiPart bool) model.Hand {
	if multiPart {
		switch n.Part {
		case 0:
			return model.RightHand
		case 1:
			return model.LeftHand
		}
	}
	if n.Pitch >= middleC {
		return model.RightHand
	}
	return model.LeftHand
}

// Assign partitions notes into hands and assigns one finger per note. The
// input must already be in the parser's order (start ticks ascending, ties
// by pitch); the returned assignments are merged back into that order.
func Assign(notes []model.Note) []model.FingeringAssignment {
	if len(notes) == 0 {
		return nil
	}

	parts := make(map[int]bool)
	for _, n := range notes {
		parts[n.Part] = true
	}
	multiPart := len(parts) > 1

	byHand := map[model.Hand][]int{}
	for i, n := range notes {
		hand := handFor(n, multiPart)
		byHand[hand] = append(byHand[hand], i)
	}

	var res []model.FingeringAssignment
	for _, hand := range []model.Hand{model.LeftHand, model.RightHand} {
		for _, i := range byHand[hand] {
			finger := FingerFor(hand, notes[i].Pitch)
			res = append(res, model.FingeringAssignment{
				NoteIndex:  i,
				Pitch:      notes[i].Pitch,
				Hand:       hand,
				Finger:     finger,
				FingerName: FingerName(finger),
			})
		}
	}
	// Back to one sequence in note order.
	sort.Slice(res, func(i, j int) bool {
		return res[i].NoteIndex < res[j].NoteIndex
	})
	return res
}

package midi

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jsphweid/pianolyze/model"
	"github.com/jsphweid/pianolyze/util"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the human-readable name of a MIDI pitch, e.g. 60 -> "C4".
func NoteName(pitch uint8) string {
	octave := int(pitch)/12 - 1
	return noteNames[int(pitch)%12] + strconv.Itoa(octave)
}

// openNote is a NoteOn waiting for its NoteOff.
type openNote struct {
	Tick     uint32
	Velocity uint8
}

// noteKey packs (channel, pitch) into one ordered key. Scoped to one track
// of one parse invocation, never shared.
type noteKey uint16

func makeNoteKey(channel, pitch uint8) noteKey { return noteKey(channel)<<8 | noteKey(pitch) }

func (k noteKey) Channel() uint8 { return uint8(k >> 8) }
func (k noteKey) Pitch() uint8   { return uint8(k) }

// reconstructTrack pairs NoteOn/NoteOff events into notes. Retriggered
// pitches queue up FIFO: the oldest open NoteOn closes first. A NoteOn with
// velocity zero counts as a NoteOff. Whatever is still open when the track
// ends is auto-closed at the track's final tick.
func reconstructTrack(events []rawEvent, finalTick uint32, diags *[]model.Diagnostic) []model.Note {
	var notes []model.Note
	open := make(map[noteKey][]openNote)
	trackIndex := 0
	if len(events) > 0 {
		trackIndex = events[0].Track
	}

	emit := func(key noteKey, on openNote, closeTick uint32) {
		duration := closeTick - on.Tick
		if duration == 0 {
			duration = 1
		}
		notes = append(notes, model.Note{
			Pitch:         key.Pitch(),
			Velocity:      on.Velocity,
			Channel:       key.Channel(),
			Part:          trackIndex,
			StartTicks:    on.Tick,
			DurationTicks: duration,
		})
	}

	for _, ev := range events {
		kind := ev.Status >> 4
		isOn := kind == noteOn && ev.Data2 > 0
		isOff := kind == noteOff || (kind == noteOn && ev.Data2 == 0)
		if !isOn && !isOff {
			continue
		}
		key := makeNoteKey(ev.Channel, ev.Data1)
		if isOn {
			open[key] = append(open[key], openNote{Tick: ev.Tick, Velocity: ev.Data2})
			continue
		}
		queue := open[key]
		if len(queue) == 0 {
			*diags = append(*diags, model.Diagnostic{
				Kind:    model.OrphanNoteOff,
				Track:   ev.Track,
				Tick:    ev.Tick,
				Message: fmt.Sprintf("note off for %s ch.%d with no matching note on", NoteName(key.Pitch()), key.Channel()),
			})
			continue
		}
		emit(key, queue[0], ev.Tick)
		open[key] = queue[1:]
	}

	// Deterministic auto-close order regardless of map iteration.
	for _, key := range util.SortedKeys(open) {
		for _, on := range open[key] {
			emit(key, on, finalTick)
			*diags = append(*diags, model.Diagnostic{
				Kind:    model.DanglingNoteAutoClosed,
				Track:   trackIndex,
				Tick:    on.Tick,
				Message: fmt.Sprintf("note on for %s ch.%d never closed, ended at track tick %d", NoteName(key.Pitch()), key.Channel(), finalTick),
			})
		}
	}
	return notes
}

// mergeNotes flattens per-track notes into the final time-ordered sequence,
// flags chord members, and stamps wall-clock times from the tempo map.
func mergeNotes(perTrack [][]model.Note, tempo *tempoMap) []model.Note {
	var all []model.Note
	for _, notes := range perTrack {
		// Chord membership is a same-track, same-start-tick property.
		starts := make(map[uint32]int)
		for _, n := range notes {
			starts[n.StartTicks]++
		}
		for _, n := range notes {
			n.ChordMember = starts[n.StartTicks] > 1
			all = append(all, n)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].StartTicks != all[j].StartTicks {
			return all[i].StartTicks < all[j].StartTicks
		}
		return all[i].Pitch < all[j].Pitch
	})
	division := float64(tempo.division)
	for i := range all {
		n := &all[i]
		start := tempo.TicksToSeconds(n.StartTicks)
		end := tempo.TicksToSeconds(n.StartTicks + n.DurationTicks)
		n.StartSeconds = start
		n.DurationSeconds = end - start
		n.StartQuarters = float64(n.StartTicks) / division
		n.DurationQuarters = float64(n.DurationTicks) / division
	}
	return all
}

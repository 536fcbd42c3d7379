package midi

import (
	"sort"

	"github.com/jsphweid/pianolyze/constants"
)

type TempoEntry struct {
	Tick             uint32
	MicrosPerQuarter uint32
}

// tempoMap converts ticks to wall-clock time. Entries are ordered by tick;
// entry zero always exists (the 120 BPM default unless the file sets a
// tempo at tick 0).
type tempoMap struct {
	division uint16
	entries  []TempoEntry
}

// buildTempoMap collects Set-Tempo meta events from every track. Tracks are
// decoded independently, so entries arrive unordered and may repeat a tick;
// the later track wins ties, matching the order a sequencer applies them.
func buildTempoMap(division uint16, tracks [][]rawEvent) *tempoMap {
	var entries []TempoEntry
	for _, events := range tracks {
		for _, ev := range events {
			if ev.Status != statusMeta || ev.Meta != metaSetTempo || len(ev.Payload) != 3 {
				continue
			}
			micros := uint32(ev.Payload[0])<<16 | uint32(ev.Payload[1])<<8 | uint32(ev.Payload[2])
			if micros == 0 {
				continue
			}
			entries = append(entries, TempoEntry{Tick: ev.Tick, MicrosPerQuarter: micros})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Tick < entries[j].Tick
	})
	// Collapse duplicate ticks, keeping the last one seen.
	deduped := entries[:0]
	for _, e := range entries {
		if len(deduped) > 0 && deduped[len(deduped)-1].Tick == e.Tick {
			deduped[len(deduped)-1] = e
			continue
		}
		deduped = append(deduped, e)
	}
	if len(deduped) == 0 || deduped[0].Tick > 0 {
		deduped = append([]TempoEntry{{Tick: 0, MicrosPerQuarter: constants.DefaultTempo}}, deduped...)
	}
	return &tempoMap{division: division, entries: deduped}
}

// TicksToSeconds sums elapsed microseconds segment by segment: each tempo
// entry governs the span up to the next entry, and the remainder inside the
// final partial segment uses that segment's rate.
func (m *tempoMap) TicksToSeconds(tick uint32) float64 {
	var micros float64
	for i, e := range m.entries {
		if e.Tick >= tick {
			break
		}
		segEnd := tick
		if i+1 < len(m.entries) && m.entries[i+1].Tick < tick {
			segEnd = m.entries[i+1].Tick
		}
		micros += float64(segEnd-e.Tick) * float64(e.MicrosPerQuarter) / float64(m.division)
	}
	return micros / 1e6
}

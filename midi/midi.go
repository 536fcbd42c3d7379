package midi

import (
	"os"

	"github.com/jsphweid/pianolyze/model"
)

// Result is everything one parse produces. Notes are sorted by start tick
// (ties by pitch) and are read-only from here on.
type Result struct {
	Format      int
	Division    int
	NumTracks   int
	TempoMap    []TempoEntry
	Notes       []model.Note
	Diagnostics []model.Diagnostic
}

// Parse decodes a complete Standard MIDI File held in memory. It either
// returns the full note sequence plus any non-fatal diagnostics, or a
// *ParseError carrying the offending byte offset. There is no partial
// output: a fatal error aborts the whole parse.
//
// Each call owns its entire working set, so concurrent calls need no
// locking.
func Parse(data []byte) (*Result, error) {
	h, perr := readHeader(data)
	if perr != nil {
		return nil, perr
	}
	chunks, perr := readTracks(data, h)
	if perr != nil {
		return nil, perr
	}

	var diags []model.Diagnostic
	trackEvents := make([][]rawEvent, len(chunks))
	finalTicks := make([]uint32, len(chunks))
	for i, tc := range chunks {
		events, finalTick, perr := decodeTrack(tc, &diags)
		if perr != nil {
			return nil, perr
		}
		trackEvents[i] = events
		finalTicks[i] = finalTick
	}

	tempo := buildTempoMap(h.Division, trackEvents)

	perTrack := make([][]model.Note, len(chunks))
	for i, events := range trackEvents {
		perTrack[i] = reconstructTrack(events, finalTicks[i], &diags)
	}

	return &Result{
		Format:      int(h.Format),
		Division:    int(h.Division),
		NumTracks:   len(chunks),
		TempoMap:    tempo.entries,
		Notes:       mergeNotes(perTrack, tempo),
		Diagnostics: diags,
	}, nil
}

// ReadFile parses a MIDI file from disk.
func ReadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

package model

// Note is a fully reconstructed note: a NoteOn paired with its NoteOff,
// placed on the absolute timeline. Immutable once the parser emits it.
type Note struct {
	Pitch    uint8 `json:"midi"`
	Velocity uint8 `json:"velocity"`
	Channel  uint8 `json:"channel"`

	// Part is the index of the originating track.
	Part int `json:"part"`

	StartTicks    uint32 `json:"start_ticks"`
	DurationTicks uint32 `json:"duration_ticks"`

	StartSeconds    float64 `json:"start_seconds"`
	DurationSeconds float64 `json:"duration_seconds"`

	// Quarter-note units (ticks divided by the file's division).
	StartQuarters    float64 `json:"offset"`
	DurationQuarters float64 `json:"duration"`

	// ChordMember is set when another note in the same track starts on
	// the exact same tick.
	ChordMember bool `json:"chord_member"`
}

type DiagnosticKind string

const (
	OrphanNoteOff          DiagnosticKind = "orphan_note_off"
	UnknownEvent           DiagnosticKind = "unknown_event"
	DanglingNoteAutoClosed DiagnosticKind = "dangling_note_auto_closed"
)

// Diagnostic is a non-fatal anomaly found while parsing. The parse keeps
// going; these ride along with the result.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Track   int            `json:"track"`
	Tick    uint32         `json:"tick"`
	Message string         `json:"message"`
}

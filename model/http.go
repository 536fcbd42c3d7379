package model

// NoteResult is a Note as it crosses the API boundary, with the
// human-readable pitch name attached.
type NoteResult struct {
	Note
	Pitch string `json:"pitch"`
}

type ParseResponse struct {
	Success     bool                  `json:"success"`
	RequestId   string                `json:"request_id"`
	Notes       []NoteResult          `json:"notes"`
	Fingering   []FingeringAssignment `json:"fingering"`
	Difficulty  DifficultyReport      `json:"difficulty"`
	Diagnostics []Diagnostic          `json:"diagnostics"`
	TotalNotes  int                   `json:"total_notes"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

package model

type Hand string

const (
	LeftHand  Hand = "left"
	RightHand Hand = "right"
)

// Finger numbering follows piano convention: 1 = thumb .. 5 = pinky.
type FingeringAssignment struct {
	NoteIndex  int    `json:"note_index"`
	Pitch      uint8  `json:"midi"`
	Hand       Hand   `json:"hand"`
	Finger     int    `json:"finger"`
	FingerName string `json:"finger_name"`
}

package model

type DifficultyLevel string

const (
	LevelUnknown      DifficultyLevel = "Unknown"
	LevelBeginner     DifficultyLevel = "Beginner"
	LevelBeginnerPlus DifficultyLevel = "Beginner+"
	LevelIntermediate DifficultyLevel = "Intermediate"
	LevelAdvanced     DifficultyLevel = "Advanced"
)

type DifficultyReport struct {
	Level      DifficultyLevel `json:"level"`
	Score      int             `json:"score"`
	Factors    []string        `json:"factors"`
	NoteSpan   int             `json:"note_span"`
	TotalNotes int             `json:"total_notes"`
}

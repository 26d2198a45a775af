package entities

// Aircraft type tags used across the question bank.
const (
	AircraftA320Family = "A320_FAMILY"
	AircraftB737Family = "B737_FAMILY"
	AircraftGeneral    = "GENERAL"
	AircraftAll        = "ALL"
)

// Difficulty levels.
const (
	DifficultyBasic        = "basic"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
	DifficultyAll          = "all"
)

// Quiz modes. Review samples previously studied material, timed runs
// against the clock, practice applies no mode-specific selection.
const (
	ModePractice = "practice"
	ModeReview   = "review"
	ModeTimed    = "timed"
	ModeExam     = "exam"
)

// Question represents a single multiple-choice question from the bank.
// CorrectAnswer is a zero-based index into Options; CreationTime is a
// unix-millisecond timestamp used as a tie-breaker during dedup.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	AircraftType  string   `json:"aircraftType"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	IsActive      bool     `json:"isActive"`
	CreationTime  int64    `json:"creationTime"`
	Reference     string   `json:"reference,omitempty"`
}

// Valid reports whether the question satisfies the structural
// invariants of the bank: at least two options and a correct-answer
// index that points inside them.
func (q Question) Valid() bool {
	return len(q.Options) >= 2 &&
		q.CorrectAnswer >= 0 &&
		q.CorrectAnswer < len(q.Options)
}

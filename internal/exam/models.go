package exam

type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyHard     Difficulty = "hard"
)

type Approval string

const (
	ApprovalPending     Approval = "pending"
	ApprovalApproved    Approval = "approved"
	ApprovalDisapproved Approval = "disapproved"
)

// ChoiceContent is a tagged variant: a choice body is either text or an
// image reference, never both.
type ChoiceContent struct {
	Kind     ContentKind `json:"kind"`
	Text     string      `json:"text,omitempty"`
	ImageRef string      `json:"image_ref,omitempty"`
}

type ContentKind string

const (
	ContentText  ContentKind = "text"
	ContentImage ContentKind = "image"
)

func TextContent(s string) ChoiceContent {
	return ChoiceContent{Kind: ContentText, Text: s}
}

func ImageContent(ref string) ChoiceContent {
	return ChoiceContent{Kind: ContentImage, ImageRef: ref}
}

type Choice struct {
	ID         string        `json:"id"`
	QuestionID string        `json:"question_id"`
	Content    ChoiceContent `json:"content"`
	Correct    bool          `json:"correct"`
}

type Question struct {
	ID         string     `json:"id"`
	SubjectID  string     `json:"subject_id"`
	Difficulty Difficulty `json:"difficulty"`
	Points     int        `json:"points"`
	Approval   Approval   `json:"approval"`
	Body       string     `json:"body"`
	Choices    []Choice   `json:"choices"`
}

// QuotaSpec maps bucket names (difficulty levels, or subject ids for the
// outer pass of a multi-subject exam) to percentage weights summing to 100.
type QuotaSpec struct {
	Difficulty map[Difficulty]int `json:"difficulty"`
	Subjects   map[string]int     `json:"subjects,omitempty"`
}

// RenderedChoice is the learner-facing view of a choice after shuffling.
// Internal ordering and the source choice id are stripped; the correctness
// flag stays server side for grading.
type RenderedChoice struct {
	Content ChoiceContent `json:"content"`
	Correct bool          `json:"-"`
}

// ExamEntry pairs a question snapshot with its shuffled choice list.
type ExamEntry struct {
	Question Question         `json:"question"`
	Choices  []RenderedChoice `json:"choices"`
}

type ComposedExam struct {
	Entries         []ExamEntry `json:"entries"`
	AchievedPoints  int         `json:"achieved_points"`
	RequestedPoints int         `json:"requested_points"`
}

// SubjectSection groups composed entries for one subject of a printable exam.
type SubjectSection struct {
	SubjectID   string      `json:"subject_id"`
	SubjectName string      `json:"subject_name"`
	Entries     []ExamEntry `json:"entries"`
}

// Shortfall reports a bucket whose pool cannot meet its quota.
type Shortfall struct {
	Bucket    string `json:"bucket"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
	Deficit   int    `json:"deficit"`
}

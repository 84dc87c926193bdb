package exam

import "context"

// FetchOpts narrows the candidate pool before composition.
type FetchOpts struct {
	SubjectID string
	Program   string // optional program filter, empty matches all
}

// QuestionRepo serves approved questions with their choices. Pending and
// disapproved items never leave the repo.
type QuestionRepo interface {
	FetchApproved(ctx context.Context, opts FetchOpts) ([]Question, error)
	SubjectName(ctx context.Context, subjectID string) (string, error)
}

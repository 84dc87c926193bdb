package render

import (
	"github.com/examforge/examforge/internal/exam"
)

// Errors carried through status publication.
const (
	CodeRenderFailed  = "render_failed"
	CodeRenderTimeout = "render_timeout"
)

// Job is one render unit: a composed printable exam on its way to a PDF
// artifact. A job is mutated only by the single worker owning the current
// attempt.
type Job struct {
	ID      string
	OwnerID string
	Title   string
	Payload []exam.SubjectSection
	Attempt int
}

// RenderError is the terminal failure surfaced through the status store
// after the retry budget is exhausted.
type RenderError struct {
	Code    string
	Message string
}

func (e *RenderError) Error() string { return e.Message }

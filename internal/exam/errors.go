package exam

import (
	"fmt"
	"strings"
)

// Error codes surfaced at the API boundary.
const (
	CodeBadWeights = "quota_weights_invalid"
	CodeBadTarget  = "quota_target_invalid"
	CodeShortfall  = "question_shortfall"
)

type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string { return e.Message }

func errBadWeights(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Code: CodeBadWeights, Message: fmt.Sprintf(format, args...)}
}

// ShortfallError aggregates every bucket that could not be filled, so a
// caller gets the full report in one shot rather than failing bucket by
// bucket.
type ShortfallError struct {
	Shortfalls []Shortfall `json:"shortfalls"`
}

func (e *ShortfallError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s: need %d, have %d (short %d)", s.Bucket, s.Required, s.Available, s.Deficit))
	}
	return "insufficient questions: " + strings.Join(parts, "; ")
}

func (e *ShortfallError) Code() string { return CodeShortfall }

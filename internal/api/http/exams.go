package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	auth "github.com/examforge/examforge/internal/auth/middleware"
	"github.com/examforge/examforge/internal/exam"
)

type practiceRequest struct {
	SubjectID   string         `json:"subject_id"`
	Program     string         `json:"program,omitempty"`
	TotalPoints int            `json:"total_points"`
	Quota       map[string]int `json:"quota"` // difficulty -> percent
	ChoiceCount int            `json:"choice_count,omitempty"`
}

// learner-facing DTOs: correctness flags and source choice ids never leave
// the server.
type practiceChoice struct {
	Content exam.ChoiceContent `json:"content"`
}

type practiceQuestion struct {
	ID         string           `json:"id"`
	Difficulty exam.Difficulty  `json:"difficulty"`
	Points     int              `json:"points"`
	Body       string           `json:"body"`
	Choices    []practiceChoice `json:"choices"`
}

type practiceResponse struct {
	AttemptID       string             `json:"attempt_id"`
	Questions       []practiceQuestion `json:"questions"`
	AchievedPoints  int                `json:"achieved_points"`
	RequestedPoints int                `json:"requested_points"`
	Shortfalls      []exam.Shortfall   `json:"shortfalls,omitempty"`
}

func difficultyQuota(m map[string]int) map[exam.Difficulty]int {
	out := make(map[exam.Difficulty]int, len(m))
	for k, v := range m {
		out[exam.Difficulty(k)] = v
	}
	return out
}

// ComposePracticeHandler builds a single-subject practice exam
// synchronously. Partial fill is tolerated; shortfalls ride along in the
// response.
func ComposePracticeHandler(composer *exam.Composer, cache *AttemptCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req practiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_json", Message: err.Error()})
			return
		}
		ex, shortfalls, err := composer.ComposePractice(r.Context(), exam.PracticeRequest{
			SubjectID:   req.SubjectID,
			Program:     req.Program,
			TotalPoints: req.TotalPoints,
			Quota:       difficultyQuota(req.Quota),
			ChoiceCount: req.ChoiceCount,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		attemptID := uuid.NewString()
		cache.put(attemptID, auth.SubjectFromContext(r.Context()), ex)

		resp := practiceResponse{
			AttemptID:       attemptID,
			AchievedPoints:  ex.AchievedPoints,
			RequestedPoints: ex.RequestedPoints,
			Shortfalls:      shortfalls,
		}
		for _, e := range ex.Entries {
			q := practiceQuestion{
				ID:         e.Question.ID,
				Difficulty: e.Question.Difficulty,
				Points:     e.Question.Points,
				Body:       e.Question.Body,
			}
			for _, c := range e.Choices {
				q.Choices = append(q.Choices, practiceChoice{Content: c.Content})
			}
			resp.Questions = append(resp.Questions, q)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// GradeAttemptHandler scores a cached practice attempt against the retained
// correctness flags.
func GradeAttemptHandler(cache *AttemptCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attemptID := chi.URLParam(r, "attemptID")
		var req struct {
			Answers exam.Answers `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_json", Message: err.Error()})
			return
		}
		ex, ownerID, ok := cache.get(attemptID)
		if !ok {
			writeJSON(w, http.StatusNotFound, errorBody{Code: "attempt_not_found", Message: "unknown or expired attempt"})
			return
		}
		if ownerID != auth.SubjectFromContext(r.Context()) {
			writeJSON(w, http.StatusForbidden, errorBody{Code: "attempt_forbidden", Message: "attempt belongs to another user"})
			return
		}
		writeJSON(w, http.StatusOK, exam.Grade(ex, req.Answers))
	}
}

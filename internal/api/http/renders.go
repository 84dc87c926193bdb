package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/examforge/examforge/internal/auth/middleware"
	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/render"
	"github.com/examforge/examforge/internal/storage"
)

type renderRequest struct {
	Title       string         `json:"title"`
	SubjectIDs  []string       `json:"subject_ids"`
	SubjectPct  map[string]int `json:"subject_pct"`
	Program     string         `json:"program,omitempty"`
	TotalItems  int            `json:"total_items"`
	Quota       map[string]int `json:"quota"`
	ChoiceCount int            `json:"choice_count,omitempty"`
}

// SubmitRenderHandler composes the multi-subject printable exam and
// enqueues its render job, returning the job id immediately. Any shortfall
// aborts before a job is created.
func SubmitRenderHandler(composer *exam.Composer, svc *render.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req renderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_json", Message: err.Error()})
			return
		}
		sections, err := composer.ComposePrintable(r.Context(), exam.PrintableRequest{
			SubjectIDs:  req.SubjectIDs,
			Program:     req.Program,
			TotalItems:  req.TotalItems,
			SubjectPct:  req.SubjectPct,
			Quota:       difficultyQuota(req.Quota),
			ChoiceCount: req.ChoiceCount,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		jobID, err := svc.Submit(r.Context(), auth.SubjectFromContext(r.Context()), req.Title, sections)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
	}
}

// PollRenderHandler returns owner-checked job status.
func PollRenderHandler(svc *render.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")
		view, err := svc.Poll(r.Context(), jobID, auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// DownloadRenderHandler streams a completed job's PDF to its owner.
func DownloadRenderHandler(svc *render.Service, blob storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")
		key, err := svc.ArtifactKey(r.Context(), jobID, auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		rc, err := blob.Get(key)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorBody{Code: "artifact_missing", Message: "artifact no longer available"})
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="exam.pdf"`)
		_, _ = io.Copy(w, rc)
	}
}

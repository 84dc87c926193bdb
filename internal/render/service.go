package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/status"
)

var (
	ErrNotFound  = errors.New("render job not found")
	ErrForbidden = errors.New("render job belongs to another requester")
)

// StatusView is the poller-facing slice of job state. The artifact key stays
// server side; only owner-checked download handlers see it.
type StatusView struct {
	JobID       string           `json:"job_id"`
	Status      status.JobStatus `json:"status"`
	DownloadURL string           `json:"download_url,omitempty"`
	ErrorCode   string           `json:"error_code,omitempty"`
	ErrorMsg    string           `json:"error_msg,omitempty"`
	Attempt     int              `json:"attempt"`
}

// Service is the job submission surface: enqueue a composed exam, poll its
// progress, locate its artifact. Ownership checks live here, not in the
// status store.
type Service struct {
	store status.Store
	pool  *Pool
	ttl   time.Duration
}

func NewService(store status.Store, pool *Pool, ttl time.Duration) *Service {
	return &Service{store: store, pool: pool, ttl: ttl}
}

// Submit registers the job as pending and hands it to the pool, returning
// the opaque job id the client polls with.
func (s *Service) Submit(ctx context.Context, ownerID, title string, payload []exam.SubjectSection) (string, error) {
	jobID := uuid.NewString()
	now := time.Now().Unix()
	if err := s.store.Put(ctx, jobID, status.State{
		Status:    status.StatusPending,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}, s.ttl); err != nil {
		return "", fmt.Errorf("publish pending: %w", err)
	}
	job := &Job{ID: jobID, OwnerID: ownerID, Title: title, Payload: payload}
	if err := s.pool.Enqueue(job); err != nil {
		return "", err
	}
	return jobID, nil
}

// Poll returns the job's state to its owner. Unknown or expired ids map to
// ErrNotFound, foreign ids to ErrForbidden.
func (s *Service) Poll(ctx context.Context, jobID, requesterID string) (StatusView, error) {
	st, ok, err := s.store.Get(ctx, jobID)
	if err != nil {
		return StatusView{}, err
	}
	if !ok {
		return StatusView{}, ErrNotFound
	}
	if st.OwnerID != requesterID {
		return StatusView{}, ErrForbidden
	}
	return StatusView{
		JobID:       jobID,
		Status:      st.Status,
		DownloadURL: st.DownloadURL,
		ErrorCode:   st.ErrorCode,
		ErrorMsg:    st.ErrorMsg,
		Attempt:     st.Attempt,
	}, nil
}

// ArtifactKey returns the storage key of a completed job's PDF, with the
// same ownership rules as Poll.
func (s *Service) ArtifactKey(ctx context.Context, jobID, requesterID string) (string, error) {
	st, ok, err := s.store.Get(ctx, jobID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotFound
	}
	if st.OwnerID != requesterID {
		return "", ErrForbidden
	}
	if st.Status != status.StatusCompleted || st.ArtifactKey == "" {
		return "", ErrNotFound
	}
	return st.ArtifactKey, nil
}

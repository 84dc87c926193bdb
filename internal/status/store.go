package status

import (
	"context"
	"time"
)

type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions may be observed.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// State is the published view of one render job. Owner gates who may poll
// it; enforcement lives in the consuming service, not here.
type State struct {
	Status      JobStatus `json:"status"`
	OwnerID     string    `json:"owner_id"`
	DownloadURL string    `json:"download_url,omitempty"`
	ArtifactKey string    `json:"artifact_key,omitempty"`
	ErrorCode   string    `json:"error_code,omitempty"`
	ErrorMsg    string    `json:"error_msg,omitempty"`
	Attempt     int       `json:"attempt"`
	CreatedAt   int64     `json:"created_at"`
	UpdatedAt   int64     `json:"updated_at"`
}

// Patch updates a subset of State fields; nil fields are left untouched.
type Patch struct {
	Status      *JobStatus
	DownloadURL *string
	ArtifactKey *string
	ErrorCode   *string
	ErrorMsg    *string
	Attempt     *int
}

func (p Patch) apply(s *State) {
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.DownloadURL != nil {
		s.DownloadURL = *p.DownloadURL
	}
	if p.ArtifactKey != nil {
		s.ArtifactKey = *p.ArtifactKey
	}
	if p.ErrorCode != nil {
		s.ErrorCode = *p.ErrorCode
	}
	if p.ErrorMsg != nil {
		s.ErrorMsg = *p.ErrorMsg
	}
	if p.Attempt != nil {
		s.Attempt = *p.Attempt
	}
	s.UpdatedAt = time.Now().Unix()
}

// Store publishes and polls job state across workers. Per-key writes are
// atomic; entries expire after their TTL regardless of terminal state.
type Store interface {
	Put(ctx context.Context, jobID string, st State, ttl time.Duration) error
	Get(ctx context.Context, jobID string) (State, bool, error)
	Merge(ctx context.Context, jobID string, patch Patch) error
}

func StatusPtr(s JobStatus) *JobStatus { return &s }
func StrPtr(s string) *string          { return &s }
func IntPtr(n int) *int                { return &n }

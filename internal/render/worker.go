package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nats-io/nuid"

	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/logger"
	"github.com/examforge/examforge/internal/status"
	"github.com/examforge/examforge/internal/storage"
)

// Renderer and Optimizer are the two heavy pipeline stages. They are
// interfaces so the worker's retry machinery is testable without producing
// real PDFs.
type Renderer interface {
	Render(job *Job, outPath string) error
}

type Optimizer interface {
	OptimizeSections(ctx context.Context, sections []exam.SubjectSection) (inlined, kept int)
}

type Config struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	Backoff     time.Duration
	Timeout     time.Duration
	StatusTTL   time.Duration
}

// Pool executes render jobs off the request path. Each job id is owned by
// exactly one worker per attempt; the status store is the only shared state.
type Pool struct {
	cfg       Config
	queue     chan *Job
	store     status.Store
	optimizer Optimizer
	renderer  Renderer
	blob      storage.BlobStore
	scratch   string
	workerID  string
	log       *logger.Logger
}

func NewPool(cfg Config, store status.Store, opt Optimizer, rend Renderer, blob storage.BlobStore, scratch string, log *logger.Logger) (*Pool, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, err
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return &Pool{
		cfg:       cfg,
		queue:     make(chan *Job, cfg.QueueSize),
		store:     store,
		optimizer: opt,
		renderer:  rend,
		blob:      blob,
		scratch:   scratch,
		workerID:  host,
		log:       log.With("component", "RenderPool"),
	}, nil
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.cfg.Workers; i++ {
		go p.run(ctx)
	}
}

// Enqueue hands a job to the pool. A full queue is reported to the caller
// instead of blocking the request path.
func (p *Pool) Enqueue(job *Job) error {
	select {
	case p.queue <- job:
		return nil
	default:
		return fmt.Errorf("render queue full")
	}
}

func (p *Pool) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.queue:
			p.process(ctx, job)
		}
	}
}

func (p *Pool) process(ctx context.Context, job *Job) {
	job.Attempt++
	log := p.log.With("job_id", job.ID, "attempt", job.Attempt)

	if err := p.store.Merge(ctx, job.ID, status.Patch{
		Status:  status.StatusPtr(status.StatusProcessing),
		Attempt: status.IntPtr(job.Attempt),
	}); err != nil {
		log.Warn("publish processing failed", "error", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	key, url, err := p.attempt(attemptCtx, job)
	timedOut := attemptCtx.Err() == context.DeadlineExceeded
	cancel()

	if err == nil {
		if merr := p.store.Merge(ctx, job.ID, status.Patch{
			Status:      status.StatusPtr(status.StatusCompleted),
			DownloadURL: status.StrPtr(url),
			ArtifactKey: status.StrPtr(key),
		}); merr != nil {
			log.Error("publish completed failed", "error", merr)
		}
		log.Info("render complete", "artifact", key)
		return
	}

	code := CodeRenderFailed
	if timedOut {
		code = CodeRenderTimeout
	}
	log.Warn("render attempt failed", "error", err, "code", code)

	if job.Attempt < p.cfg.MaxAttempts {
		// Record the error, fall back to pending, re-enqueue after backoff.
		if merr := p.store.Merge(ctx, job.ID, status.Patch{
			Status:    status.StatusPtr(status.StatusPending),
			ErrorCode: status.StrPtr(code),
			ErrorMsg:  status.StrPtr(err.Error()),
		}); merr != nil {
			log.Warn("publish retry-pending failed", "error", merr)
		}
		time.AfterFunc(p.cfg.Backoff, func() {
			if err := p.Enqueue(job); err != nil {
				p.failTerminal(context.Background(), job, code, "re-enqueue failed: "+err.Error())
			}
		})
		return
	}
	p.failTerminal(ctx, job, code, err.Error())
}

func (p *Pool) failTerminal(ctx context.Context, job *Job, code, msg string) {
	if err := p.store.Merge(ctx, job.ID, status.Patch{
		Status:    status.StatusPtr(status.StatusFailed),
		ErrorCode: status.StrPtr(code),
		ErrorMsg:  status.StrPtr(msg),
	}); err != nil {
		p.log.Error("publish terminal failure failed", "job_id", job.ID, "error", err)
	}
	p.log.Error("job terminally failed", "job_id", job.ID, "attempts", job.Attempt, "error", msg)
}

// attempt runs one full pass over the job: optimize images, render chunks,
// persist the artifact. A partial output file never survives an error.
func (p *Pool) attempt(ctx context.Context, job *Job) (key, url string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	inlined, kept := p.optimizer.OptimizeSections(ctx, job.Payload)
	p.log.Debug("images optimized", "job_id", job.ID, "inlined", inlined, "fallback", kept)
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	outPath := filepath.Join(p.scratch, fmt.Sprintf("%s-a%d.pdf", job.ID, job.Attempt))
	if err := p.renderer.Render(job, outPath); err != nil {
		os.Remove(outPath)
		return "", "", err
	}
	if err := ctx.Err(); err != nil {
		os.Remove(outPath)
		return "", "", err
	}

	f, err := os.Open(outPath)
	if err != nil {
		return "", "", err
	}
	now := time.Now()
	key = fmt.Sprintf("renders/%s/%s-%s-%s.pdf",
		now.Format("20060102"), now.Format("150405"), nuid.Next(), p.workerID)
	_, err = p.blob.Put(key, f)
	f.Close()
	os.Remove(outPath)
	if err != nil {
		return "", "", fmt.Errorf("persist artifact: %w", err)
	}

	url, err = p.blob.URL(key)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

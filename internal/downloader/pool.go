package downloader

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"wikifauna/pkg/logger"
	"wikifauna/pkg/models"
	"wikifauna/pkg/ratelimit"
	"wikifauna/pkg/storage"
)

// Job is one unique animal to resolve
type Job struct {
	Animal *models.Animal
}

// Outcome classifies how an animal's resolution ended
type Outcome string

const (
	// OutcomeDownloaded means a real image was fetched from the source page
	OutcomeDownloaded Outcome = "downloaded"
	// OutcomeCached means the destination file already existed
	OutcomeCached Outcome = "cached"
	// OutcomePlaceholder means the fallback image was substituted
	OutcomePlaceholder Outcome = "placeholder"
	// OutcomeFailed means no image and no placeholder could be produced
	OutcomeFailed Outcome = "failed"
)

// Result is one animal's resolution outcome. Path is empty only for
// OutcomeFailed; such animals stay out of the manifest.
type Result struct {
	Name     string
	Path     string
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// ImageLocator finds a candidate image URL on an animal's page
type ImageLocator interface {
	Locate(pageURL, title string) (string, error)
}

// ImageFetcher durably downloads one URL to one destination path
type ImageFetcher interface {
	Fetch(url, dest string) error
}

// Session bundles the per-worker pipeline components. Each worker obtains
// one session when it starts and keeps it for its lifetime, so HTTP clients
// are never shared across workers.
type Session struct {
	Locator ImageLocator
	Fetcher ImageFetcher
}

// SessionFactory builds a fresh session for one worker
type SessionFactory func() *Session

// WorkerPool fans unique animals out across a fixed number of workers.
// Work for a single animal is fully sequential within its worker: locate,
// then fetch, then the placeholder fallback.
type WorkerPool struct {
	numWorkers      int
	jobQueue        chan Job
	resultQueue     chan Result
	wg              sync.WaitGroup
	ctx             context.Context
	cancel          context.CancelFunc
	newSession      SessionFactory
	storage         *storage.Manager
	placeholderPath string
	rateLimiter     ratelimit.Limiter
	logger          logger.Logger
}

// NewWorkerPool creates a worker pool for image resolution
func NewWorkerPool(
	numWorkers int,
	newSession SessionFactory,
	storageManager *storage.Manager,
	placeholderPath string,
	rateLimiter ratelimit.Limiter,
	log logger.Logger,
) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:      numWorkers,
		jobQueue:        make(chan Job, numWorkers*2),
		resultQueue:     make(chan Result, numWorkers),
		ctx:             ctx,
		cancel:          cancel,
		newSession:      newSession,
		storage:         storageManager,
		placeholderPath: placeholderPath,
		rateLimiter:     rateLimiter,
		logger:          log,
	}
}

// Start launches all workers
func (wp *WorkerPool) Start() {
	wp.logger.InfoWithFields("starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the job queue, waits for in-flight work and closes the
// result queue
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("worker pool stopped")
}

// Submit adds an animal to the queue
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// Results returns the result channel for consuming resolution outcomes
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

// worker is the main worker routine. The session is created once per
// worker and reused for every job it handles.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	session := wp.newSession()

	wp.logger.DebugWithFields("worker started", map[string]interface{}{
		"worker_id": id,
	})

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		result := wp.processJob(job, session, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

// processJob resolves one animal: idempotent short-circuit, locate, fetch,
// placeholder fallback. Failures inside one job never propagate; they
// surface only as the job's Result.
func (wp *WorkerPool) processJob(job Job, session *Session, workerID int) Result {
	start := time.Now()
	animal := job.Animal
	dest := wp.storage.ImagePath(animal.Name)

	// Re-running the pool never re-downloads an image that already exists
	if wp.storage.HasImage(animal.Name) {
		wp.logger.DebugWithFields("image already present", map[string]interface{}{
			"worker_id": workerID,
			"animal":    animal.Name,
			"path":      dest,
		})
		return Result{
			Name:     animal.Name,
			Path:     dest,
			Outcome:  OutcomeCached,
			Duration: time.Since(start),
		}
	}

	var resolveErr error

	// No source page means no locate step; fall straight through to the
	// placeholder rather than guessing a URL from the name
	if animal.PageURL != "" {
		if wp.rateLimiter != nil && !wp.rateLimiter.Allow() {
			logger.LogRateLimit(wp.logger, animal.PageURL)
			wp.rateLimiter.Wait()
		}

		imageURL, err := session.Locator.Locate(animal.PageURL, animal.Name)
		switch {
		case err != nil:
			resolveErr = err
			wp.logger.WarnWithFields("source page unavailable", map[string]interface{}{
				"worker_id": workerID,
				"animal":    animal.Name,
				"page_url":  animal.PageURL,
				"error":     err.Error(),
			})
		case imageURL == "":
			wp.logger.DebugWithFields("no image found on source page", map[string]interface{}{
				"worker_id": workerID,
				"animal":    animal.Name,
			})
		default:
			if err := session.Fetcher.Fetch(imageURL, dest); err != nil {
				resolveErr = err
				wp.logger.WarnWithFields("image download failed", map[string]interface{}{
					"worker_id": workerID,
					"animal":    animal.Name,
					"image_url": imageURL,
					"error":     err.Error(),
				})
			} else {
				wp.storage.MarkResolved(animal.Name)
				return Result{
					Name:     animal.Name,
					Path:     dest,
					Outcome:  OutcomeDownloaded,
					Duration: time.Since(start),
				}
			}
		}
	}

	// Placeholder fallback
	if wp.placeholderPath != "" {
		if _, err := os.Stat(wp.placeholderPath); err == nil {
			path, err := wp.storage.CopyPlaceholder(wp.placeholderPath, animal.Name)
			if err == nil {
				return Result{
					Name:     animal.Name,
					Path:     path,
					Outcome:  OutcomePlaceholder,
					Err:      resolveErr,
					Duration: time.Since(start),
				}
			}
			resolveErr = err
		}
	}

	// The result collector logs the failed outcome
	return Result{
		Name:     animal.Name,
		Outcome:  OutcomeFailed,
		Err:      resolveErr,
		Duration: time.Since(start),
	}
}

// QueueSize returns the current number of queued jobs
func (wp *WorkerPool) QueueSize() int {
	return len(wp.jobQueue)
}

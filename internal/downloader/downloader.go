package downloader

import (
	"sync"
	"time"

	"wikifauna/pkg/config"
	"wikifauna/pkg/fetcher"
	"wikifauna/pkg/locator"
	"wikifauna/pkg/logger"
	"wikifauna/pkg/manifest"
	"wikifauna/pkg/models"
	"wikifauna/pkg/ratelimit"
	"wikifauna/pkg/storage"
	"wikifauna/pkg/wiki"
)

// Stats summarizes a completed download batch
type Stats struct {
	Total       int
	Downloaded  int
	Cached      int
	Placeholder int
	Failed      int
	Duration    time.Duration
}

// Downloader runs the image resolution batch: it dedups the grouping,
// checks the destination volume, fans unique animals out across workers
// and merges the results back into the grouping and the manifest.
type Downloader struct {
	cfg      *config.Config
	storage  *storage.Manager
	logger   logger.Logger
	OnResult func(Result) // optional progress hook, called from the collector goroutine
}

// New creates a downloader rooted at the configured image directory
func New(cfg *config.Config, log logger.Logger) (*Downloader, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	storageManager, err := storage.NewManager(cfg.Storage.ImageDir)
	if err != nil {
		return nil, err
	}

	return &Downloader{
		cfg:     cfg,
		storage: storageManager,
		logger:  log,
	}, nil
}

// Storage exposes the underlying storage manager
func (d *Downloader) Storage() *storage.Manager {
	return d.storage
}

// newSession builds one worker's pipeline: its own HTTP client, locator
// and fetcher. Clients are long-lived and worker-private.
func (d *Downloader) newSession() *Session {
	client := wiki.NewClient(
		d.cfg.Wiki.RequestTimeout,
		d.cfg.Wiki.APIEndpoint,
		d.cfg.Wiki.UserAgent,
		d.logger,
	)

	return &Session{
		Locator: locator.New(client, d.cfg.Locator, d.logger),
		Fetcher: fetcher.New(
			client.HTTPClient(),
			d.cfg.Wiki.UserAgent,
			d.cfg.Download.MaxImageSize,
			d.cfg.Download.RetryAttempts,
			d.logger,
		),
	}
}

// Run resolves one image per unique animal and returns the persisted
// manifest. The grouping's Animal pointers are updated in place with their
// resolved paths after all workers have finished, never concurrently.
// Run always writes a manifest, even when every resolution failed.
func (d *Downloader) Run(grouping models.Grouping) (*manifest.Manifest, Stats, error) {
	start := time.Now()

	unique := grouping.Unique()
	stats := Stats{Total: len(unique)}

	d.logger.InfoWithFields("starting download batch", map[string]interface{}{
		"unique_animals": len(unique),
		"categories":     len(grouping),
		"workers":        d.cfg.Download.Workers,
	})

	if err := storage.CheckDiskSpace(d.storage.OutputDir(), d.logger); err != nil {
		return nil, stats, err
	}

	limiter := ratelimit.NewTokenBucket(
		d.cfg.Wiki.RequestsPerMinute,
		time.Minute,
	)

	pool := NewWorkerPool(
		d.cfg.Download.Workers,
		d.newSession,
		d.storage,
		d.cfg.Download.PlaceholderPath,
		limiter,
		d.logger,
	)
	pool.Start()

	results := make([]Result, 0, len(unique))
	var collectorWG sync.WaitGroup
	collectorWG.Add(1)
	go func() {
		defer collectorWG.Done()
		for result := range pool.Results() {
			logger.LogResolution(d.logger, result.Name, string(result.Outcome), result.Path, result.Err)
			results = append(results, result)
			if d.OnResult != nil {
				d.OnResult(result)
			}
		}
	}()

	for _, animal := range unique {
		if err := pool.Submit(Job{Animal: animal}); err != nil {
			d.logger.WithError(err).Error("failed to submit job")
		}
	}

	pool.Stop()
	collectorWG.Wait()

	// Single-threaded merge; workers are all gone by now
	paths := make(map[string]string, len(results))
	for _, result := range results {
		switch result.Outcome {
		case OutcomeDownloaded:
			stats.Downloaded++
		case OutcomeCached:
			stats.Cached++
		case OutcomePlaceholder:
			stats.Placeholder++
		case OutcomeFailed:
			stats.Failed++
		}
		if result.Path != "" {
			paths[result.Name] = result.Path
		}
	}
	grouping.ApplyImagePaths(paths)

	man := manifest.New()
	for name, path := range paths {
		man.Set(name, path)
	}

	// The manifest is written last so its presence implies a completed
	// batch, however many entries it carries
	if err := man.Save(d.cfg.Storage.ManifestPath); err != nil {
		return nil, stats, err
	}

	stats.Duration = time.Since(start)

	d.logger.InfoWithFields("download batch complete", map[string]interface{}{
		"downloaded":  stats.Downloaded,
		"cached":      stats.Cached,
		"placeholder": stats.Placeholder,
		"failed":      stats.Failed,
		"duration":    stats.Duration.Round(time.Millisecond).String(),
	})

	return man, stats, nil
}

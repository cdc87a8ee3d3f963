package scraper

import (
	"fmt"
	"os"

	"wikifauna/internal/downloader"
	"wikifauna/pkg/config"
	"wikifauna/pkg/logger"
	"wikifauna/pkg/manifest"
	"wikifauna/pkg/models"
	"wikifauna/pkg/report"
	"wikifauna/pkg/ui"
	"wikifauna/pkg/wiki"
)

// Pipeline orchestrates the full run: snapshot the source page, parse the
// collateral adjective table, resolve images, render the report.
type Pipeline struct {
	config   *config.Config
	client   *wiki.Client
	notifier *ui.Notifier
	logger   logger.Logger
	tui      ui.TUI
}

// New creates a Pipeline from the given configuration
func New(cfg *config.Config) (*Pipeline, error) {
	log := logger.GetLogger()

	client := wiki.NewClient(
		cfg.Wiki.RequestTimeout,
		cfg.Wiki.APIEndpoint,
		cfg.Wiki.UserAgent,
		log,
	)

	return &Pipeline{
		config:   cfg,
		client:   client,
		notifier: ui.NewNotifier(),
		logger:   log,
	}, nil
}

// SetTUI attaches the full-screen terminal interface
func (p *Pipeline) SetTUI(t ui.TUI) {
	p.tui = t
}

// Run executes the pipeline end to end. With SkipDownload set, image
// resolution is bypassed and the report is rebuilt from the existing
// manifest; a missing manifest is then a hard error.
func (p *Pipeline) Run() error {
	grouping, err := p.acquireGrouping()
	if err != nil {
		return err
	}

	p.logger.InfoWithFields("table parsed", map[string]interface{}{
		"categories": len(grouping),
		"entries":    grouping.Count(),
		"unique":     len(grouping.Unique()),
	})
	p.info("Parsed %d adjectives covering %d animals", len(grouping), len(grouping.Unique()))

	var view manifest.CategoryView
	if p.config.Download.SkipDownload {
		view, err = p.viewFromManifest(grouping)
	} else {
		view, err = p.resolveImages(grouping)
	}
	if err != nil {
		return err
	}

	p.setPhase("rendering report")
	renderer := report.NewRenderer(p.config.Report.TemplateDir, p.config.Report.StaticDir, p.logger)
	if err := renderer.Render(view, p.config.Report.OutputPath); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if p.tui != nil {
		p.tui.LogInfo("Report written to %s", p.config.Report.OutputPath)
		p.tui.Done()
	} else {
		p.notifier.SendSuccess("wikifauna", fmt.Sprintf("Report written to %s", p.config.Report.OutputPath))
	}

	return nil
}

// acquireGrouping snapshots the source page and parses the table. When the
// fetch fails but an earlier snapshot exists on disk, the run degrades to
// the stale snapshot instead of aborting.
func (p *Pipeline) acquireGrouping() (models.Grouping, error) {
	p.setPhase("fetching page")

	cachePath := p.config.Storage.CachePath
	if err := p.client.FetchPage(p.config.Wiki.PageURL, cachePath); err != nil {
		if _, statErr := os.Stat(cachePath); statErr != nil {
			return nil, fmt.Errorf("failed to fetch source page: %w", err)
		}
		p.logger.WithError(err).Warn("page fetch failed, using cached snapshot")
		p.warn("Page fetch failed, using cached snapshot")
	}

	p.setPhase("parsing table")
	grouping, err := wiki.ParseTableFile(cachePath, p.config.Wiki.PageURL, p.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to parse animal table: %w", err)
	}
	if len(grouping) == 0 {
		return nil, fmt.Errorf("no collateral adjective rows found in source page")
	}

	return grouping, nil
}

// resolveImages runs the download batch and assembles the category view
// from the fresh manifest
func (p *Pipeline) resolveImages(grouping models.Grouping) (manifest.CategoryView, error) {
	p.setPhase("resolving images")

	d, err := downloader.New(p.config, p.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create downloader: %w", err)
	}

	total := len(grouping.Unique())
	var progress *ui.ProgressDisplay
	if p.tui != nil {
		p.tui.SetTotal(total)
	} else {
		progress = ui.NewProgressDisplay(total, p.config.Logging.Level == "debug")
	}

	d.OnResult = func(r downloader.Result) {
		if p.tui != nil {
			p.tui.RecordOutcome(r.Name, string(r.Outcome), r.Err)
			return
		}
		switch r.Outcome {
		case downloader.OutcomeDownloaded:
			progress.Downloaded(r.Name)
		case downloader.OutcomeCached:
			progress.Cached(r.Name)
		case downloader.OutcomePlaceholder:
			progress.Placeholder(r.Name)
		case downloader.OutcomeFailed:
			progress.Failed(r.Name, r.Err)
		}
	}

	man, stats, err := d.Run(grouping)
	if err != nil {
		return nil, err
	}

	if progress != nil {
		progress.Complete()
	}
	if stats.Failed > 0 {
		p.warn("%d animals ended up without any image", stats.Failed)
	}

	return manifest.BuildView(grouping, man.Entries()), nil
}

// viewFromManifest rebuilds the category view from a previous run's
// manifest without touching the network for images
func (p *Pipeline) viewFromManifest(grouping models.Grouping) (manifest.CategoryView, error) {
	p.setPhase("loading manifest")

	view, err := manifest.LoadView(p.config.Storage.ManifestPath, grouping)
	if err != nil {
		return nil, fmt.Errorf("no usable manifest at %s (run without --skip-download first): %w",
			p.config.Storage.ManifestPath, err)
	}
	return view, nil
}

func (p *Pipeline) setPhase(phase string) {
	if p.tui != nil {
		p.tui.SetPhase(phase)
	} else {
		ui.PrintHighlight("[" + phase + "]")
	}
	p.logger.WithField("phase", phase).Debug("pipeline phase")
}

func (p *Pipeline) info(format string, args ...interface{}) {
	if p.tui != nil {
		p.tui.LogInfo(format, args...)
	} else {
		ui.PrintInfo("info", fmt.Sprintf(format, args...))
	}
}

func (p *Pipeline) warn(format string, args ...interface{}) {
	if p.tui != nil {
		p.tui.LogWarning(format, args...)
	} else {
		ui.PrintWarning(format, args...)
	}
}

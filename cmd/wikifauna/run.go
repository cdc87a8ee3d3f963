package main

import (
	"os"

	"github.com/spf13/cobra"

	"wikifauna/pkg/config"
	"wikifauna/pkg/logger"
	"wikifauna/pkg/scraper"
	"wikifauna/pkg/ui"
	"wikifauna/pkg/ui/tui"
)

var (
	// Run command flags
	pageURL         string
	outputPath      string
	imageDir        string
	manifestPath    string
	cachePath       string
	templateDir     string
	staticDir       string
	workers         int
	retries         int
	skipDownload    bool
	placeholderPath string
	useTUI          bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape the animal table, resolve images and render the report",
	Long: `Run the full pipeline: fetch the "List of animal names" page, parse
the collateral adjective table, resolve one image per animal concurrently,
and render the HTML report.

Re-running is safe: images already on disk are reused, and the manifest is
rewritten at the end of every run.`,
	Example: `  # Full run with defaults
  wikifauna run

  # More workers and a custom output location
  wikifauna run --workers 12 --output out/report.html

  # Rebuild the report from a previous run's manifest, no image downloads
  wikifauna run --skip-download

  # Watch the batch in the interactive terminal UI
  wikifauna run --tui`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runPipeline()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&pageURL, "page-url", "", "source page URL")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "report output path")
	runCmd.Flags().StringVar(&imageDir, "image-dir", "", "directory for downloaded images")
	runCmd.Flags().StringVar(&manifestPath, "manifest", "", "manifest file path")
	runCmd.Flags().StringVar(&cachePath, "cache", "", "page snapshot path")
	runCmd.Flags().StringVar(&templateDir, "templates", "", "report template directory")
	runCmd.Flags().StringVar(&staticDir, "static", "", "static asset directory")
	runCmd.Flags().IntVar(&workers, "workers", 0, "number of download workers")
	runCmd.Flags().IntVar(&retries, "retries", 0, "retry attempts per download")
	runCmd.Flags().BoolVar(&skipDownload, "skip-download", false, "rebuild the report from the existing manifest")
	runCmd.Flags().StringVar(&placeholderPath, "placeholder", "", "placeholder image for failed resolutions")
	runCmd.Flags().BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")
}

func runPipeline() {
	flags := map[string]interface{}{
		"page-url":      pageURL,
		"output":        outputPath,
		"image-dir":     imageDir,
		"manifest":      manifestPath,
		"cache":         cachePath,
		"templates":     templateDir,
		"static":        staticDir,
		"workers":       workers,
		"retries":       retries,
		"skip-download": skipDownload,
		"placeholder":   placeholderPath,
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	if verbose {
		flags["log-level"] = "debug"
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger: %v", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("wikifauna starting")

	if useTUI {
		terminal := tui.New()

		pipelineDone := make(chan error, 1)
		go func() {
			p, err := scraper.New(cfg)
			if err != nil {
				pipelineDone <- err
				return
			}
			p.SetTUI(terminal)
			err = p.Run()
			// A failed run never reaches the pipeline's own Done call
			terminal.Done()
			pipelineDone <- err
		}()

		// The TUI owns the main goroutine until the batch finishes or the
		// user quits
		if err := terminal.Run(); err != nil {
			log.WithError(err).Error("terminal UI failed")
			os.Exit(1)
		}
		if err := <-pipelineDone; err != nil {
			log.WithError(err).Error("pipeline failed")
			os.Exit(1)
		}
	} else {
		p, err := scraper.New(cfg)
		if err != nil {
			ui.PrintError("Failed to initialize pipeline: %v", err)
			os.Exit(1)
		}
		if err := p.Run(); err != nil {
			log.WithError(err).Error("pipeline failed")
			ui.PrintError("Run failed: %v", err)
			os.Exit(1)
		}
	}

	log.Info("pipeline completed successfully")
}

// Make run the default command when no subcommand is specified
func init() {
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			runPipeline()
			return nil
		}
		return cmd.Help()
	}
	rootCmd.Args = cobra.ArbitraryArgs
}

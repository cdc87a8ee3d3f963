// Package scraper wires the whole pipeline together: it snapshots the
// Wikipedia "List of animal names" page, parses the collateral adjective
// table, resolves one image per unique animal through the download batch,
// and renders the static HTML report.
//
// Architecture:
//
// The Pipeline struct coordinates the stages:
//   - Fetches and caches the source page (stale cache is an accepted
//     fallback when the fetch fails)
//   - Parses the adjective table into a category grouping
//   - Runs the concurrent download batch, or reloads a prior manifest
//     when downloads are skipped
//   - Renders the report from the category view
//
// Usage:
//
//	cfg, err := config.Load("", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pipeline, err := scraper.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := pipeline.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Failure isolation:
//
// A single animal's failed resolution never aborts the run; the batch
// records the failure and continues, and the manifest is written at the
// end regardless of how many entries it carries.
package scraper

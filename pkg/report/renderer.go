package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"wikifauna/pkg/logger"
	"wikifauna/pkg/manifest"
)

// templateName is the entry template file expected in the template directory
const templateName = "report.gohtml"

// page is the root object handed to the template
type page struct {
	Title       string
	Generated   string
	Categories  []category
	AnimalCount int
}

type category struct {
	Label   string
	Animals []manifest.Entry
}

// Renderer produces the static HTML report from a category view
type Renderer struct {
	templateDir string
	staticDir   string
	logger      logger.Logger
}

// NewRenderer creates a renderer reading templates from templateDir and
// static assets from staticDir
func NewRenderer(templateDir, staticDir string, log logger.Logger) *Renderer {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Renderer{
		templateDir: templateDir,
		staticDir:   staticDir,
		logger:      log,
	}
}

// Render writes the report to outputPath and copies static assets next to
// it. Missing template keys are hard errors rather than silent blanks.
func (r *Renderer) Render(view manifest.CategoryView, outputPath string) error {
	tmpl, err := template.New(templateName).
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"relpath": func(target string) string {
				rel, err := filepath.Rel(filepath.Dir(outputPath), target)
				if err != nil {
					return target
				}
				return rel
			},
		}).
		ParseFiles(filepath.Join(r.templateDir, templateName))
	if err != nil {
		return fmt.Errorf("failed to parse report template: %w", err)
	}

	p := page{
		Title:     "Animals by Collateral Adjective",
		Generated: time.Now().Format("2006-01-02 15:04:05 MST"),
	}
	for _, label := range view.Categories() {
		p.Categories = append(p.Categories, category{
			Label:   label,
			Animals: view[label],
		})
		p.AnimalCount += len(view[label])
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp := outputPath + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	execErr := tmpl.Execute(out, p)
	closeErr := out.Close()
	if execErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to render report: %w", execErr)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close report file: %w", closeErr)
	}
	if err := os.Rename(tmp, outputPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename report file: %w", err)
	}

	if err := r.copyStaticAssets(filepath.Dir(outputPath)); err != nil {
		return err
	}

	r.logger.InfoWithFields("report written", map[string]interface{}{
		"path":       outputPath,
		"categories": len(p.Categories),
		"animals":    p.AnimalCount,
	})

	return nil
}

// copyStaticAssets mirrors the static directory into destDir/static so the
// report is self-contained
func (r *Renderer) copyStaticAssets(destDir string) error {
	if r.staticDir == "" {
		return nil
	}

	src, err := filepath.Abs(r.staticDir)
	if err != nil {
		return fmt.Errorf("failed to resolve static directory: %w", err)
	}
	dest, err := filepath.Abs(filepath.Join(destDir, "static"))
	if err != nil {
		return fmt.Errorf("failed to resolve static destination: %w", err)
	}
	if src == dest {
		return nil
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read static directory: %w", err)
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create static destination: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := copyFile(filepath.Join(src, entry.Name()), filepath.Join(dest, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open asset: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create asset copy: %w", err)
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("failed to copy asset: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close asset copy: %w", closeErr)
	}
	return nil
}

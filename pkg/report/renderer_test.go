package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikifauna/pkg/logger"
	"wikifauna/pkg/manifest"
)

const testTemplate = `<html><body>
<h1>{{.Title}}</h1>
{{range .Categories}}<section><h2>{{.Label}}</h2>
{{range .Animals}}{{if .ImagePath}}<img src="{{relpath .ImagePath}}" alt="{{.Name}}">{{else}}<div class="no-image">{{.Name}}</div>{{end}}
{{end}}</section>{{end}}
</body></html>`

func writeTestTemplate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, templateName), []byte(testTemplate), 0644))
	return dir
}

func TestRenderWritesReport(t *testing.T) {
	templateDir := writeTestTemplate(t)
	outDir := t.TempDir()
	outputPath := filepath.Join(outDir, "report.html")

	view := manifest.CategoryView{
		"canine": {
			{Name: "Dog", ImagePath: filepath.Join(outDir, "images", "dog.jpg")},
			{Name: "Wolf", ImagePath: ""},
		},
		"avian": {
			{Name: "Crow", ImagePath: filepath.Join(outDir, "images", "crow.jpg")},
		},
	}

	r := NewRenderer(templateDir, "", logger.NewTestLogger())
	require.NoError(t, r.Render(view, outputPath))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "<h2>avian</h2>")
	assert.Contains(t, html, "<h2>canine</h2>")
	assert.Contains(t, html, `src="images/dog.jpg"`, "image paths should be relative to the report")
	assert.Contains(t, html, `<div class="no-image">Wolf</div>`)
}

func TestRenderCategoryOrderIsStable(t *testing.T) {
	templateDir := writeTestTemplate(t)
	outputPath := filepath.Join(t.TempDir(), "report.html")

	view := manifest.CategoryView{
		"vulpine": {{Name: "Fox"}},
		"avian":   {{Name: "Crow"}},
		"feline":  {{Name: "Cat"}},
	}

	r := NewRenderer(templateDir, "", logger.NewTestLogger())
	require.NoError(t, r.Render(view, outputPath))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	html := string(data)

	avian := strings.Index(html, "avian")
	feline := strings.Index(html, "feline")
	vulpine := strings.Index(html, "vulpine")
	assert.True(t, avian < feline && feline < vulpine)
}

func TestRenderCopiesStaticAssets(t *testing.T) {
	templateDir := writeTestTemplate(t)

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "style.css"), []byte("body{}"), 0644))

	outDir := t.TempDir()
	outputPath := filepath.Join(outDir, "report.html")

	r := NewRenderer(templateDir, staticDir, logger.NewTestLogger())
	require.NoError(t, r.Render(manifest.CategoryView{}, outputPath))

	assert.FileExists(t, filepath.Join(outDir, "static", "style.css"))
}

func TestRenderMissingTemplateFails(t *testing.T) {
	r := NewRenderer(t.TempDir(), "", logger.NewTestLogger())
	err := r.Render(manifest.CategoryView{}, filepath.Join(t.TempDir(), "report.html"))
	assert.Error(t, err)
}

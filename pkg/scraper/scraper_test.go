package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikifauna/pkg/config"
	"wikifauna/pkg/manifest"
	"wikifauna/pkg/ui"
)

const listPageHTML = `<html><body>
<table class="wikitable">
<tr><th>Animal</th><th>Young</th><th>Collateral adjective</th></tr>
<tr><td><a href="/wiki/Dog">Dog</a></td><td>puppy</td><td>canine</td></tr>
<tr><td><a href="/wiki/Cat">Cat</a></td><td>kitten</td><td>feline</td></tr>
<tr><td><a href="/wiki/Shark">Shark</a></td><td>pup</td><td>selachian; squaloid</td></tr>
</table>
</body></html>`

func animalPageHTML(name string) string {
	return fmt.Sprintf(`<html><body>
<table class="infobox"><tr><td>
<img src="/img/%s.jpg" width="300" height="200">
</td></tr></table>
</body></html>`, name)
}

func newWikiServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/List_of_animal_names", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listPageHTML)
	})
	for _, name := range []string{"Dog", "Cat", "Shark"} {
		name := name
		mux.HandleFunc("/wiki/"+name, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, animalPageHTML(name))
		})
		mux.HandleFunc("/img/"+name+".jpg", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg bytes for " + name))
		})
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newPipelineConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Wiki.PageURL = serverURL + "/wiki/List_of_animal_names"
	cfg.Wiki.APIEndpoint = serverURL + "/w/api.php"
	cfg.Download.Workers = 2
	cfg.Download.PlaceholderPath = ""
	cfg.Storage.ImageDir = filepath.Join(dir, "images")
	cfg.Storage.ManifestPath = filepath.Join(dir, "manifest.json")
	cfg.Storage.CachePath = filepath.Join(dir, "snapshot.html")
	cfg.Report.OutputPath = filepath.Join(dir, "report.html")
	cfg.Report.TemplateDir = filepath.Join(dir, "templates")
	cfg.Report.StaticDir = ""

	require.NoError(t, os.MkdirAll(cfg.Report.TemplateDir, 0755))
	tmpl := `<html>{{range .Categories}}<h2>{{.Label}}</h2>{{range .Animals}}<p>{{.Name}}:{{.ImagePath}}</p>{{end}}{{end}}</html>`
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Report.TemplateDir, "report.gohtml"), []byte(tmpl), 0644))

	return cfg
}

func TestPipelineEndToEnd(t *testing.T) {
	ui.SetQuietMode(true)
	defer ui.SetQuietMode(false)

	server := newWikiServer(t)
	cfg := newPipelineConfig(t, server.URL)

	pipeline, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, pipeline.Run())

	// Snapshot, manifest and report all land on disk
	assert.FileExists(t, cfg.Storage.CachePath)
	assert.FileExists(t, cfg.Storage.ManifestPath)
	assert.FileExists(t, cfg.Report.OutputPath)

	man, err := manifest.Load(cfg.Storage.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, 3, man.Len())

	// Shark appears under both adjectives but owns a single file
	sharkPath, ok := man.Get("Shark")
	require.True(t, ok)
	assert.FileExists(t, sharkPath)

	data, err := os.ReadFile(cfg.Report.OutputPath)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "<h2>canine</h2>")
	assert.Contains(t, html, "<h2>selachian</h2>")
	assert.Contains(t, html, "<h2>squaloid</h2>")
}

func TestPipelineSkipDownloadRequiresManifest(t *testing.T) {
	ui.SetQuietMode(true)
	defer ui.SetQuietMode(false)

	server := newWikiServer(t)
	cfg := newPipelineConfig(t, server.URL)
	cfg.Download.SkipDownload = true

	pipeline, err := New(cfg)
	require.NoError(t, err)
	assert.Error(t, pipeline.Run(), "skip-download with no manifest must fail")
}

func TestPipelineSkipDownloadUsesManifest(t *testing.T) {
	ui.SetQuietMode(true)
	defer ui.SetQuietMode(false)

	server := newWikiServer(t)
	cfg := newPipelineConfig(t, server.URL)

	man := manifest.New()
	man.Set("Dog", "/images/dog.jpg")
	require.NoError(t, man.Save(cfg.Storage.ManifestPath))

	cfg.Download.SkipDownload = true
	pipeline, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, pipeline.Run())

	data, err := os.ReadFile(cfg.Report.OutputPath)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "Dog:/images/dog.jpg")
	// Cat was never resolved; it still appears, with no image path
	assert.Contains(t, html, "Cat:")
}

func TestPipelineUsesCachedSnapshotOnFetchFailure(t *testing.T) {
	ui.SetQuietMode(true)
	defer ui.SetQuietMode(false)

	server := newWikiServer(t)
	cfg := newPipelineConfig(t, server.URL)

	// Seed the snapshot, then point the page URL at a dead server.
	// Animal pages still resolve against the live test server.
	require.NoError(t, os.WriteFile(cfg.Storage.CachePath, []byte(listPageHTML), 0644))
	cfg.Wiki.PageURL = "http://127.0.0.1:1/wiki/List_of_animal_names"

	placeholder := filepath.Join(t.TempDir(), "placeholder.jpg")
	require.NoError(t, os.WriteFile(placeholder, []byte("placeholder"), 0644))
	cfg.Download.PlaceholderPath = placeholder

	pipeline, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, pipeline.Run())

	assert.FileExists(t, cfg.Report.OutputPath)
}

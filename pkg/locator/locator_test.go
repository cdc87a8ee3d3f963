package locator

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wikifauna/pkg/config"
	"wikifauna/pkg/logger"
	"wikifauna/pkg/wiki"
)

// servePage starts a server answering every page request with the given
// body, plus an API endpoint for the search fallback
func servePage(t *testing.T, body string, thumbnail string) (*httptest.Server, *Locator) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if thumbnail == "" {
			fmt.Fprint(w, `{"query":{"pages":{"-1":{"title":"x"}}}}`)
			return
		}
		fmt.Fprintf(w, `{"query":{"pages":{"1":{"pageid":1,"title":"x",
			"thumbnail":{"source":%q,"width":500,"height":300}}}}}`, thumbnail)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := wiki.NewClient(5*time.Second, server.URL+"/w/api.php", "wikifauna-test/1.0", logger.NewTestLogger())
	cfg := config.DefaultConfig().Locator
	loc := New(client, cfg, logger.NewTestLogger())
	return server, loc
}

func TestLocatePrefersInfobox(t *testing.T) {
	page := `<html><body>
<div class="thumbinner"><img src="/img/thumb.jpg" width="220" height="150"></div>
<table class="infobox"><tr><td><img src="/img/infobox.jpg" width="300" height="200"></td></tr></table>
</body></html>`

	server, loc := servePage(t, page, "")

	img, err := loc.Locate(server.URL+"/wiki/Dog", "Dog")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if img != server.URL+"/img/infobox.jpg" {
		t.Errorf("Expected infobox image to win, got %s", img)
	}
}

func TestLocateFallsBackToThumbnail(t *testing.T) {
	page := `<html><body>
<div class="thumbinner"><img src="/img/thumb/a/ab/Dog.jpg/220px-Dog.jpg" width="220" height="150"></div>
</body></html>`

	server, loc := servePage(t, page, "")

	img, err := loc.Locate(server.URL+"/wiki/Dog", "Dog")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	// Scaled thumbnail URLs are rewritten to the original rendition
	if img != server.URL+"/img/a/ab/Dog.jpg" {
		t.Errorf("Expected unscaled thumbnail URL, got %s", img)
	}
}

func TestLocateSkipsDenylistedImages(t *testing.T) {
	page := `<html><body>
<table class="infobox"><tr><td>
<img src="/img/Wiki-letter_w.svg" width="300" height="300">
<img src="/img/edit-icon.png" width="300" height="300">
<img src="/img/real-photo.jpg" width="300" height="200">
</td></tr></table>
</body></html>`

	server, loc := servePage(t, page, "")

	img, err := loc.Locate(server.URL+"/wiki/Dog", "Dog")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if img != server.URL+"/img/real-photo.jpg" {
		t.Errorf("Expected denylisted images skipped, got %s", img)
	}
}

func TestLocateSkipsTinyImages(t *testing.T) {
	page := `<html><body>
<table class="infobox"><tr><td>
<img src="/img/tiny.jpg" width="16" height="16">
<img src="/img/proper.jpg" width="300" height="200">
</td></tr></table>
</body></html>`

	server, loc := servePage(t, page, "")

	img, err := loc.Locate(server.URL+"/wiki/Dog", "Dog")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if img != server.URL+"/img/proper.jpg" {
		t.Errorf("Expected tiny image skipped, got %s", img)
	}
}

func TestLocatePicksLargestAsLastHeuristic(t *testing.T) {
	// No structured containers at all; the area ranking decides
	page := `<html><body>
<img src="/img/small.jpg" width="100" height="100">
<img src="/img/large.jpg" width="800" height="600">
<img src="/img/medium.jpg" width="400" height="300">
</body></html>`

	server, loc := servePage(t, page, "")

	img, err := loc.Locate(server.URL+"/wiki/Dog", "Dog")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if img != server.URL+"/img/large.jpg" {
		t.Errorf("Expected largest image, got %s", img)
	}
}

func TestLocateSearchAPIFallback(t *testing.T) {
	page := `<html><body><p>No pictures here.</p></body></html>`

	server, loc := servePage(t, page, "https://img.example.org/dog-search.jpg")

	img, err := loc.Locate(server.URL+"/wiki/Dog", "Dog")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if img != "https://img.example.org/dog-search.jpg" {
		t.Errorf("Expected search API thumbnail, got %s", img)
	}
}

func TestLocateNoImageIsNotAnError(t *testing.T) {
	page := `<html><body><p>No pictures here.</p></body></html>`

	server, loc := servePage(t, page, "")

	img, err := loc.Locate(server.URL+"/wiki/Dog", "Dog")
	if err != nil {
		t.Fatalf("Expected no error for imageless page, got %v", err)
	}
	if img != "" {
		t.Errorf("Expected empty result, got %s", img)
	}
}

func TestLocateUnreachablePage(t *testing.T) {
	server, loc := servePage(t, "", "")
	server.Close()

	if _, err := loc.Locate(server.URL+"/wiki/Dog", "Dog"); err == nil {
		t.Error("Expected error for unreachable page")
	}
}

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
)

// MockAnimal describes one row the mock site serves
type MockAnimal struct {
	Name       string
	Adjectives []string
	// NoLink leaves the animal without a source page link
	NoLink bool
	// NoImage serves the animal's page without any usable image
	NoImage bool
	// SearchThumbnail makes the pageimages API return a thumbnail for
	// this animal
	SearchThumbnail bool
}

// MockWikiServer simulates the encyclopedia site: the list page, per-animal
// pages, image downloads and the pageimages API.
type MockWikiServer struct {
	server  *httptest.Server
	animals []MockAnimal

	requestCount int32

	mu            sync.Mutex
	failuresLeft  map[string]int // path -> remaining 500 responses
	errorStatus   map[string]int // path -> fixed status code
	imageSize     map[string]int // path -> body size in bytes
	imageRequests map[string]int // path -> request count
}

// NewMockWikiServer starts a mock site serving the given animals
func NewMockWikiServer(animals []MockAnimal) *MockWikiServer {
	m := &MockWikiServer{
		animals:       animals,
		failuresLeft:  make(map[string]int),
		errorStatus:   make(map[string]int),
		imageSize:     make(map[string]int),
		imageRequests: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/List_of_animal_names", m.handleListPage)
	mux.HandleFunc("/wiki/", m.handleAnimalPage)
	mux.HandleFunc("/img/", m.handleImage)
	mux.HandleFunc("/w/api.php", m.handleAPI)

	m.server = httptest.NewServer(mux)
	return m
}

// URL returns the mock server's base URL
func (m *MockWikiServer) URL() string {
	return m.server.URL
}

// Close shuts the server down
func (m *MockWikiServer) Close() {
	m.server.Close()
}

// RequestCount returns the total number of requests served
func (m *MockWikiServer) RequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// FailTimes makes the given path answer 500 for the next n requests
func (m *MockWikiServer) FailTimes(path string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failuresLeft[path] = n
}

// SetError makes the given path always answer with the given status
func (m *MockWikiServer) SetError(path string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorStatus[path] = status
}

// SetImageSize makes an image path serve a body of the given size
func (m *MockWikiServer) SetImageSize(path string, size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imageSize[path] = size
}

// ImageRequests returns how many times an image path was requested
func (m *MockWikiServer) ImageRequests(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.imageRequests[path]
}

// interceptConfigured applies configured failures for a path; it reports
// whether the response was already written
func (m *MockWikiServer) interceptConfigured(w http.ResponseWriter, path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if left, ok := m.failuresLeft[path]; ok && left > 0 {
		m.failuresLeft[path] = left - 1
		w.WriteHeader(http.StatusInternalServerError)
		return true
	}
	if status, ok := m.errorStatus[path]; ok {
		w.WriteHeader(status)
		return true
	}
	return false
}

func (m *MockWikiServer) handleListPage(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	if m.interceptConfigured(w, r.URL.Path) {
		return
	}

	var b strings.Builder
	b.WriteString(`<html><body><table class="wikitable">`)
	b.WriteString(`<tr><th>Animal</th><th>Young</th><th>Collateral adjective</th></tr>`)
	for _, animal := range m.animals {
		b.WriteString("<tr><td>")
		if animal.NoLink {
			b.WriteString(animal.Name)
		} else {
			fmt.Fprintf(&b, `<a href="/wiki/%s">%s</a>`, urlName(animal.Name), animal.Name)
		}
		b.WriteString("</td><td>young</td><td>")
		b.WriteString(strings.Join(animal.Adjectives, "; "))
		b.WriteString("</td></tr>")
	}
	b.WriteString(`</table></body></html>`)

	fmt.Fprint(w, b.String())
}

func (m *MockWikiServer) handleAnimalPage(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	if m.interceptConfigured(w, r.URL.Path) {
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/wiki/")
	animal := m.find(name)
	if animal == nil {
		http.NotFound(w, r)
		return
	}

	if animal.NoImage {
		fmt.Fprint(w, `<html><body><p>An animal with no pictures.</p></body></html>`)
		return
	}

	fmt.Fprintf(w, `<html><body>
<table class="infobox"><tr><td>
<img src="/img/%s.jpg" width="300" height="200">
</td></tr></table>
</body></html>`, urlName(animal.Name))
}

func (m *MockWikiServer) handleImage(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	m.mu.Lock()
	m.imageRequests[r.URL.Path]++
	m.mu.Unlock()

	if m.interceptConfigured(w, r.URL.Path) {
		return
	}

	m.mu.Lock()
	size := m.imageSize[r.URL.Path]
	m.mu.Unlock()

	if size > 0 {
		w.Write(make([]byte, size))
		return
	}
	w.Write([]byte("jpeg bytes for " + r.URL.Path))
}

// handleAPI answers pageimages thumbnail queries
func (m *MockWikiServer) handleAPI(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	if m.interceptConfigured(w, r.URL.Path) {
		return
	}

	title := r.URL.Query().Get("titles")
	animal := m.find(urlName(title))

	pages := make(map[string]interface{})
	if animal != nil && animal.SearchThumbnail {
		pages["100"] = map[string]interface{}{
			"pageid": 100,
			"title":  animal.Name,
			"thumbnail": map[string]interface{}{
				"source": m.server.URL + "/img/search-" + urlName(animal.Name) + ".jpg",
				"width":  500,
				"height": 320,
			},
		}
	} else {
		pages["-1"] = map[string]interface{}{
			"title": title,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"query": map[string]interface{}{"pages": pages},
	})
}

func (m *MockWikiServer) find(urlOrName string) *MockAnimal {
	for i := range m.animals {
		if urlName(m.animals[i].Name) == urlOrName || m.animals[i].Name == urlOrName {
			return &m.animals[i]
		}
	}
	return nil
}

// urlName converts an animal name to its page path segment
func urlName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

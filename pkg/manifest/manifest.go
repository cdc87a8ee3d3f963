package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"wikifauna/pkg/models"
)

// Manifest is the persisted mapping from animal name to local image path.
// It is the sole durable artifact bridging the download pipeline and report
// assembly. Animals whose resolution failed completely are simply absent.
type Manifest struct {
	entries map[string]string
}

// New creates an empty manifest
func New() *Manifest {
	return &Manifest{entries: make(map[string]string)}
}

// Set records an animal's resolved image path. Empty paths are ignored so
// failed resolutions never produce entries.
func (m *Manifest) Set(name, path string) {
	if name == "" || path == "" {
		return
	}
	m.entries[name] = path
}

// Get returns the image path for an animal and whether one is recorded
func (m *Manifest) Get(name string) (string, bool) {
	path, ok := m.entries[name]
	return path, ok
}

// Len returns the number of entries
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the underlying mapping
func (m *Manifest) Entries() map[string]string {
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// Save writes the manifest as flat JSON, atomically
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename manifest: %w", err)
	}

	return nil
}

// Load reads a flat manifest from disk
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &Manifest{entries: entries}, nil
}

// Entry is one animal in the rendered category view
type Entry struct {
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`
}

// CategoryView is the category-grouped shape consumed by report assembly
type CategoryView map[string][]Entry

// legacyFile is the alternate persisted shape some earlier runs produced
type legacyFile struct {
	AdjectiveToAnimals CategoryView `json:"adjective_to_animals"`
}

// LoadView reads a manifest file in either supported shape and returns the
// category view. The legacy shape already carries categories; the flat
// shape is intersected with the freshly parsed grouping to reconstruct
// them. Animals missing from the manifest get an empty ImagePath so the
// renderer can show an explicit "no image" state instead of crashing.
func LoadView(path string, grouping models.Grouping) (CategoryView, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if _, ok := probe["adjective_to_animals"]; ok {
		var legacy legacyFile
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, fmt.Errorf("failed to parse legacy manifest: %w", err)
		}
		return legacy.AdjectiveToAnimals, nil
	}

	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("failed to parse flat manifest: %w", err)
	}

	return BuildView(grouping, flat), nil
}

// BuildView assembles the category view from a grouping and a flat
// name-to-path mapping
func BuildView(grouping models.Grouping, flat map[string]string) CategoryView {
	view := make(CategoryView, len(grouping))
	for category, animals := range grouping {
		entries := make([]Entry, 0, len(animals))
		for _, animal := range animals {
			entries = append(entries, Entry{
				Name:      animal.Name,
				ImagePath: flat[animal.Name],
			})
		}
		view[category] = entries
	}
	return view
}

// Categories returns the view's category labels in sorted order, for
// stable rendering
func (v CategoryView) Categories() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

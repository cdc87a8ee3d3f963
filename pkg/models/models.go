package models

import "strings"

// Animal is one named subject extracted from the collateral adjective table.
// Name is the canonical display string and doubles as the deduplication and
// manifest key. PageURL is empty when the table carried no link for the row;
// that is a legitimate state and no URL is ever synthesized from the name.
type Animal struct {
	Name      string `json:"name"`
	PageURL   string `json:"page_url,omitempty"`
	ImagePath string `json:"image_path,omitempty"`
}

// Grouping maps a case-folded collateral adjective to the animals it applies
// to. One animal may appear under several adjectives; all occurrences refer
// to the same real-world subject.
type Grouping map[string][]*Animal

// Add appends an animal to a category, lowercasing the label and skipping
// duplicates by name so insertion order within a category stays stable.
func (g Grouping) Add(category string, animal *Animal) {
	key := strings.ToLower(strings.TrimSpace(category))
	if key == "" || animal == nil || animal.Name == "" {
		return
	}
	for _, existing := range g[key] {
		if existing.Name == animal.Name {
			return
		}
	}
	g[key] = append(g[key], animal)
}

// Unique flattens the grouping into the set of unique animals by name.
// The first occurrence wins for associated metadata such as PageURL.
func (g Grouping) Unique() []*Animal {
	seen := make(map[string]bool)
	var unique []*Animal
	for _, animals := range g {
		for _, animal := range animals {
			if seen[animal.Name] {
				continue
			}
			seen[animal.Name] = true
			unique = append(unique, animal)
		}
	}
	return unique
}

// ApplyImagePaths updates every occurrence of each named animal across all
// categories with its resolved image path. Called from a single goroutine
// after the download fan-out has joined; the workers themselves never touch
// the shared grouping.
func (g Grouping) ApplyImagePaths(paths map[string]string) {
	for _, animals := range g {
		for _, animal := range animals {
			if path, ok := paths[animal.Name]; ok {
				animal.ImagePath = path
			}
		}
	}
}

// Count returns the total number of occurrences across all categories
func (g Grouping) Count() int {
	n := 0
	for _, animals := range g {
		n += len(animals)
	}
	return n
}

package wiki

import (
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	errs "wikifauna/pkg/errors"
	"wikifauna/pkg/logger"
	"wikifauna/pkg/models"
)

const (
	adjectiveHeader = "Collateral adjective"
	animalHeader    = "Animal"
)

// ParseTable extracts the collateral adjective table from raw page markup
// and returns the category grouping. Animals that appear in several
// categories share a single *models.Animal value; the first row seen for a
// name wins for its page link.
func ParseTable(r io.Reader, pageURL string, log logger.Logger) (models.Grouping, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeParsing, "failed to parse document: %v", err)
	}

	table := findAdjectiveTable(doc)
	if table == nil {
		return nil, errs.Newf(errs.ErrorTypeParsing,
			"could not find table with %q header", adjectiveHeader)
	}

	animalIdx, adjectiveIdx, err := columnIndices(table)
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(pageURL)

	grouping := make(models.Grouping)
	byName := make(map[string]*models.Animal)

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}

		cells := row.Find("td, th")
		if cells.Length() <= max(animalIdx, adjectiveIdx) {
			log.DebugWithFields("skipping row with insufficient cells", map[string]interface{}{
				"row": i,
			})
			return
		}

		animalCell := cells.Eq(animalIdx)
		adjectiveCell := cells.Eq(adjectiveIdx)

		// Footnote markers live in <small> tags inside the animal cell
		animalCell.Find("small").Remove()

		name := normalizeText(animalCell.Text())
		if name == "" {
			return
		}

		adjectiveText := normalizeText(adjectiveCell.Text())
		if adjectiveText == "" {
			return
		}

		animal, seen := byName[name]
		if !seen {
			animal = &models.Animal{Name: name}
			if href, ok := animalCell.Find("a").First().Attr("href"); ok {
				animal.PageURL = resolveHref(base, href)
			}
			byName[name] = animal
		}

		for _, adjective := range splitAdjectives(adjectiveText) {
			grouping.Add(adjective, animal)
		}
	})

	log.InfoWithFields("parsed collateral adjective table", map[string]interface{}{
		"categories": len(grouping),
		"animals":    len(byName),
	})

	return grouping, nil
}

// ParseTableFile parses the table from a saved page snapshot
func ParseTableFile(path, pageURL string, log logger.Logger) (models.Grouping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeParsing, "failed to open snapshot %s: %v", path, err)
	}
	defer f.Close()

	return ParseTable(f, pageURL, log)
}

// findAdjectiveTable returns the first table whose header mentions the
// collateral adjective column
func findAdjectiveTable(doc *goquery.Document) *goquery.Selection {
	var table *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		found := false
		t.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
			if strings.Contains(th.Text(), adjectiveHeader) {
				found = true
				return false
			}
			return true
		})
		if found {
			table = t
			return false
		}
		return true
	})
	return table
}

// columnIndices resolves the positions of the animal and adjective columns
// from the table's header row
func columnIndices(table *goquery.Selection) (int, int, error) {
	animalIdx, adjectiveIdx := -1, -1

	table.Find("tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
		switch normalizeText(th.Text()) {
		case animalHeader:
			animalIdx = i
		case adjectiveHeader:
			adjectiveIdx = i
		}
	})

	if animalIdx < 0 || adjectiveIdx < 0 {
		return 0, 0, errs.Newf(errs.ErrorTypeParsing,
			"required columns %q or %q not found in table", animalHeader, adjectiveHeader)
	}

	return animalIdx, adjectiveIdx, nil
}

// splitAdjectives splits a cell on semicolons when present, otherwise commas
func splitAdjectives(text string) []string {
	var parts []string
	switch {
	case strings.Contains(text, ";"):
		parts = strings.Split(text, ";")
	case strings.Contains(text, ","):
		parts = strings.Split(text, ",")
	default:
		parts = []string{text}
	}

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeText collapses runs of whitespace to single spaces and trims
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolveHref turns a page-relative link into an absolute URL. Fragment-only
// and javascript links are ignored rather than guessed at.
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		if ref.IsAbs() {
			return ref.String()
		}
		return ""
	}
	return base.ResolveReference(ref).String()
}

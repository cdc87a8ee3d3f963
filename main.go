// Legacy single-file prototype kept as a minimal alternative to the full
// CLI under cmd/wikifauna. It fetches the animal names page and dumps the
// adjective grouping as JSON without downloading any images.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultPageURL = "https://en.wikipedia.org/wiki/List_of_animal_names"

func main() {
	pageURL := defaultPageURL
	if len(os.Args) > 1 {
		pageURL = os.Args[1]
	}

	fmt.Fprintf(os.Stderr, "Fetching %s\n", pageURL)

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequest("GET", pageURL, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("User-Agent", "wikifauna-prototype/1.0")

	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching page: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Unexpected status: %s\n", resp.Status)
		os.Exit(1)
	}

	grouping, err := parseAdjectives(resp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing table: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(grouping, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// parseAdjectives extracts the adjective-to-animals mapping from the page
func parseAdjectives(resp *http.Response) (map[string][]string, error) {
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	grouping := make(map[string][]string)

	doc.Find("table.wikitable").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		headers := table.Find("tr").First().Find("th")

		animalCol, adjectiveCol := -1, -1
		headers.Each(func(i int, th *goquery.Selection) {
			text := strings.TrimSpace(th.Text())
			switch {
			case text == "Animal":
				animalCol = i
			case strings.Contains(text, "Collateral adjective"):
				adjectiveCol = i
			}
		})
		if animalCol < 0 || adjectiveCol < 0 {
			return true // not the table we want, keep looking
		}

		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}
			cells := row.Find("td, th")
			if cells.Length() <= adjectiveCol || cells.Length() <= animalCol {
				return
			}

			animal := strings.TrimSpace(cells.Eq(animalCol).Find("a").First().Text())
			if animal == "" {
				animal = strings.TrimSpace(cells.Eq(animalCol).Text())
			}
			if animal == "" {
				return
			}

			for _, adjective := range strings.Split(cells.Eq(adjectiveCol).Text(), ";") {
				adjective = strings.ToLower(strings.TrimSpace(adjective))
				if adjective == "" || adjective == "—" {
					continue
				}
				grouping[adjective] = append(grouping[adjective], animal)
			}
		})
		return false
	})

	if len(grouping) == 0 {
		return nil, fmt.Errorf("no collateral adjective table found")
	}
	return grouping, nil
}

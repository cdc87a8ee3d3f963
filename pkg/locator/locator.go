package locator

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"wikifauna/pkg/config"
	"wikifauna/pkg/logger"
	"wikifauna/pkg/wiki"
)

// searchThumbnailSize is the pixel width requested from the search API in
// the last-resort strategy
const searchThumbnailSize = 500

// Locator finds the best-candidate image URL on an animal's page. It runs
// an ordered cascade of strategies from most to least precise and only falls
// back to noisy heuristics (area ranking, external search) when structured
// containers yield nothing.
type Locator struct {
	client *wiki.Client
	cfg    config.LocatorConfig
	logger logger.Logger
}

// strategy inspects a parsed page and returns an absolute image URL or ""
type strategy struct {
	name string
	find func(doc *goquery.Document, page *url.URL) string
}

// New creates a Locator backed by the given client
func New(client *wiki.Client, cfg config.LocatorConfig, log logger.Logger) *Locator {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Locator{client: client, cfg: cfg, logger: log}
}

// Locate fetches the page at pageURL and returns the best candidate image
// URL, or "" when every strategy comes up empty. A page that cannot be
// fetched at all surfaces as a page_unavailable error; "no image found" is
// a normal negative result, not an error.
func (l *Locator) Locate(pageURL, title string) (string, error) {
	body, err := l.client.FetchDocument(pageURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		l.logger.WarnWithFields("failed to parse page", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		return "", nil
	}

	page, _ := url.Parse(pageURL)

	for _, s := range l.strategies() {
		if img := s.find(doc, page); img != "" {
			l.logger.DebugWithFields("image located", map[string]interface{}{
				"url":      pageURL,
				"strategy": s.name,
				"image":    img,
			})
			return img, nil
		}
	}

	// Last resort: ask the site's search API for a representative thumbnail
	if title != "" {
		img, err := l.client.SearchThumbnail(title, searchThumbnailSize)
		if err != nil {
			l.logger.WarnWithFields("thumbnail search failed", map[string]interface{}{
				"title": title,
				"error": err.Error(),
			})
		} else if img != "" {
			l.logger.DebugWithFields("image located", map[string]interface{}{
				"url":      pageURL,
				"strategy": "search_api",
				"image":    img,
			})
			return img, nil
		}
	}

	l.logger.DebugWithFields("no image found", map[string]interface{}{
		"url": pageURL,
	})
	return "", nil
}

// strategies returns the cascade in decreasing order of precision
func (l *Locator) strategies() []strategy {
	return []strategy{
		{"infobox", l.findInfobox},
		{"thumbnail", l.findThumbnail},
		{"sidebar", l.findSidebar},
		{"lead", l.findLead},
		{"gallery", l.findGallery},
		{"figure", l.findFigure},
		{"largest", l.findLargest},
	}
}

func (l *Locator) findInfobox(doc *goquery.Document, page *url.URL) string {
	return l.firstQualifying(doc.Find("table.infobox img"), page)
}

// findThumbnail searches thumbnail/caption containers and rewrites scaled
// thumbnail URLs to request the unscaled original
func (l *Locator) findThumbnail(doc *goquery.Document, page *url.URL) string {
	img := l.firstQualifying(doc.Find("div.thumbinner img, div.thumb img"), page)
	if img == "" {
		return ""
	}
	return unscaleThumbURL(img)
}

func (l *Locator) findSidebar(doc *goquery.Document, page *url.URL) string {
	return l.firstQualifying(doc.Find("table.sidebar img, div.sidebar img"), page)
}

// findLead searches the first few content blocks of the article body
func (l *Locator) findLead(doc *goquery.Document, page *url.URL) string {
	blocks := doc.Find("div.mw-parser-output > p")
	limit := l.cfg.LeadBlocks
	if limit <= 0 || limit > blocks.Length() {
		limit = blocks.Length()
	}

	for i := 0; i < limit; i++ {
		if img := l.firstQualifying(blocks.Eq(i).Find("img"), page); img != "" {
			return img
		}
	}
	return ""
}

func (l *Locator) findGallery(doc *goquery.Document, page *url.URL) string {
	return l.firstQualifying(doc.Find("ul.gallery img, div.gallery img"), page)
}

func (l *Locator) findFigure(doc *goquery.Document, page *url.URL) string {
	return l.firstQualifying(doc.Find("figure img, div.thumbcaption img"), page)
}

// findLargest collects every qualifying image on the page and returns the
// one with the largest declared pixel area
func (l *Locator) findLargest(doc *goquery.Document, page *url.URL) string {
	var best string
	var bestArea int

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := l.qualify(img)
		if !ok {
			return
		}
		area := declaredDimension(img, "width") * declaredDimension(img, "height")
		if area > bestArea {
			bestArea = area
			best = absoluteURL(src, page)
		}
	})

	return best
}

// firstQualifying returns the first image in the selection that passes the
// size and denylist filters, as an absolute URL
func (l *Locator) firstQualifying(imgs *goquery.Selection, page *url.URL) string {
	var found string
	imgs.EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if src, ok := l.qualify(img); ok {
			found = absoluteURL(src, page)
			return false
		}
		return true
	})
	return found
}

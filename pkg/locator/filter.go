package locator

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// qualify applies the candidate filter shared by every strategy: the image
// must have a usable src, must not declare a dimension below the minimum
// (icons), and must not match the chrome/logo filename denylist.
func (l *Locator) qualify(img *goquery.Selection) (string, bool) {
	src, ok := img.Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return "", false
	}

	if min := l.cfg.MinDimension; min > 0 {
		if w := declaredDimension(img, "width"); w > 0 && w < min {
			return "", false
		}
		if h := declaredDimension(img, "height"); h > 0 && h < min {
			return "", false
		}
	}

	lower := strings.ToLower(src)
	for _, pattern := range l.cfg.Denylist {
		if pattern != "" && strings.Contains(lower, strings.ToLower(pattern)) {
			return "", false
		}
	}

	return src, true
}

// declaredDimension reads a numeric width/height attribute, 0 when absent
// or malformed
func declaredDimension(img *goquery.Selection, attr string) int {
	raw, ok := img.Attr(attr)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// absoluteURL normalizes an image src against the page it was found on:
// protocol-relative URLs take the page's scheme, root-relative URLs take
// the page's scheme and host.
func absoluteURL(src string, page *url.URL) string {
	scheme := "https"
	if page != nil && page.Scheme != "" {
		scheme = page.Scheme
	}

	switch {
	case strings.HasPrefix(src, "//"):
		return scheme + ":" + src
	case strings.HasPrefix(src, "/"):
		if page == nil || page.Host == "" {
			return src
		}
		return scheme + "://" + page.Host + src
	default:
		return src
	}
}

// unscaleThumbURL rewrites a scaled-down thumbnail URL to request the
// unscaled original. The convention is
//
//	.../commons/thumb/a/ab/Name.jpg/220px-Name.jpg
//
// which maps back to
//
//	.../commons/a/ab/Name.jpg
//
// URLs that don't follow the convention are returned unchanged.
func unscaleThumbURL(img string) string {
	idx := strings.Index(img, "/thumb/")
	if idx < 0 {
		return img
	}

	last := strings.LastIndex(img, "/")
	if last <= idx+len("/thumb/") {
		return img
	}

	// The final path segment is the scaled rendition; everything between
	// /thumb/ and it is the original path.
	return img[:idx] + "/" + img[idx+len("/thumb/"):last]
}

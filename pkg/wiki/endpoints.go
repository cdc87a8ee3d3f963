package wiki

import (
	"fmt"
	"net/url"
)

const (
	// BaseURL is the default encyclopedia host
	BaseURL = "https://en.wikipedia.org"

	// DefaultAPIEndpoint is the MediaWiki action API
	DefaultAPIEndpoint = BaseURL + "/w/api.php"

	// DefaultUserAgent identifies us as a regular browser; the site serves
	// stripped-down markup to unknown agents
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
)

// ThumbnailSearchURL builds a pageimages query for the given title
func ThumbnailSearchURL(endpoint, title string, size int) string {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("prop", "pageimages")
	params.Set("piprop", "thumbnail")
	params.Set("pithumbsize", fmt.Sprintf("%d", size))
	params.Set("redirects", "1")
	params.Set("titles", title)
	return endpoint + "?" + params.Encode()
}

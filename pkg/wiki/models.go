package wiki

// ThumbnailQueryResponse is the shape of a pageimages API response
type ThumbnailQueryResponse struct {
	Query QueryResult `json:"query"`
}

// QueryResult holds the pages returned by a query action
type QueryResult struct {
	Pages map[string]QueryPage `json:"pages"`
}

// QueryPage is one page entry in a query result
type QueryPage struct {
	PageID    int        `json:"pageid"`
	Title     string     `json:"title"`
	Thumbnail *Thumbnail `json:"thumbnail,omitempty"`
}

// Thumbnail is a representative image picked by the site for a page
type Thumbnail struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

package driven

// HTMLConverter turns an HTML page into markdown.
type HTMLConverter interface {
	// Convert returns the markdown rendering of the page's main content.
	Convert(html string) (string, error)
}

package domain

// Page is one extracted page of a source document.
type Page struct {
	Number int // 1-based
	Text   string
}

// Document is the request-scoped result of fetching and parsing one source URL.
// It lives for exactly one request and is never persisted.
type Document struct {
	Source string
	Pages  []Page
	Text   string // page texts joined with "\n"
}

// PageCount returns the number of extracted pages.
func (d Document) PageCount() int { return len(d.Pages) }

// CharCount returns the length of the concatenated text in bytes.
func (d Document) CharCount() int { return len(d.Text) }

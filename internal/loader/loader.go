// Package loader downloads a source document and extracts its text.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/gurram-lahari/SmartDoc-AI/internal/domain"
	"github.com/gurram-lahari/SmartDoc-AI/internal/logger"
)

// Loader fetches documents over HTTP and parses them into text.
// Supported formats: PDF and plain text.
type Loader struct {
	client   *http.Client
	maxBytes int64
}

// New creates a Loader with the given fetch timeout and download size cap.
func New(fetchTimeout time.Duration, maxSizeMB int) *Loader {
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 50
	}
	return &Loader{
		client:   &http.Client{Timeout: fetchTimeout},
		maxBytes: int64(maxSizeMB) << 20,
	}
}

// Fetch downloads rawURL and extracts its text. The document is held in
// memory only; nothing is written to disk or kept across requests.
func (l *Loader) Fetch(ctx context.Context, rawURL string) (domain.Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.Document{}, fmt.Errorf("%w: invalid document URL %q", domain.ErrFetch, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Document{}, fmt.Errorf("%w: unexpected status %d from %s", domain.ErrFetch, resp.StatusCode, u.Host)
	}
	if resp.ContentLength > l.maxBytes {
		return domain.Document{}, fmt.Errorf("%w: document exceeds %d MB limit", domain.ErrFetch, l.maxBytes>>20)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: reading body: %v", domain.ErrFetch, err)
	}
	if int64(len(body)) > l.maxBytes {
		return domain.Document{}, fmt.Errorf("%w: document exceeds %d MB limit", domain.ErrFetch, l.maxBytes>>20)
	}
	if len(body) == 0 {
		return domain.Document{}, fmt.Errorf("%w: empty response from %s", domain.ErrFetch, u.Host)
	}

	doc, err := l.parse(ctx, rawURL, contentType(resp), u.Path, body)
	if err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

func contentType(resp *http.Response) string {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return mediaType
}

func (l *Loader) parse(ctx context.Context, source, mediaType, urlPath string, body []byte) (domain.Document, error) {
	switch {
	case mediaType == "application/pdf",
		bytes.HasPrefix(body, []byte("%PDF-")),
		strings.HasSuffix(strings.ToLower(urlPath), ".pdf"):
		return parsePDF(ctx, source, body)

	case strings.HasPrefix(mediaType, "text/"):
		return parseText(source, body)

	case mediaType == "" || mediaType == "application/octet-stream":
		if utf8.Valid(body) {
			return parseText(source, body)
		}
		return domain.Document{}, fmt.Errorf("%w: binary document with no recognizable format", domain.ErrUnsupportedContent)

	default:
		return domain.Document{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedContent, mediaType)
	}
}

// parsePDF extracts text page by page so chunks can be traced back to pages.
func parsePDF(ctx context.Context, source string, body []byte) (doc domain.Document, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: malformed PDF: %v", domain.ErrParse, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	log := logger.FromContext(ctx)
	var pages []domain.Page
	var total strings.Builder

	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, perr := p.GetPlainText(nil)
		if perr != nil {
			log.Debug("page extraction failed", zap.Int("page", i), zap.Error(perr))
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if total.Len() > 0 {
			total.WriteString("\n")
		}
		total.WriteString(text)
		pages = append(pages, domain.Page{Number: i, Text: text})
	}

	if total.Len() == 0 {
		return domain.Document{}, fmt.Errorf("%w: no extractable text in PDF", domain.ErrParse)
	}

	return domain.Document{Source: source, Pages: pages, Text: total.String()}, nil
}

func parseText(source string, body []byte) (domain.Document, error) {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return domain.Document{}, fmt.Errorf("%w: document contains no text", domain.ErrParse)
	}
	return domain.Document{
		Source: source,
		Pages:  []domain.Page{{Number: 1, Text: text}},
		Text:   text,
	}, nil
}
